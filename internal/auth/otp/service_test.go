package otp

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/database/testutil"
	"github.com/charlesng35/portfolio/internal/models"
	"github.com/charlesng35/portfolio/internal/services"
)

type sentCode struct {
	email string
	code  string
	ttl   time.Duration
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (n *recordingNotifier) SendCode(_ context.Context, email, code string, ttl time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentCode{email: email, code: code, ttl: ttl})
	return nil
}

func (n *recordingNotifier) last(t *testing.T) sentCode {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent, "expected a code to be sent")
	return n.sent[len(n.sent)-1]
}

type otpFixture struct {
	db       *gorm.DB
	svc      *Service
	notifier *recordingNotifier
	sessions *auth.SessionService
	now      *time.Time
}

func newOTPFixture(t *testing.T, opts ...Option) *otpFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAdmin())
	store, err := NewGormStore(db)
	require.NoError(t, err)
	admins, err := services.NewAdminService(db)
	require.NoError(t, err)

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	sessions, err := auth.NewSessionService(auth.SessionConfig{
		Secret: "0123456789abcdef0123456789abcdef",
		Clock:  clock,
	})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	svc, err := NewService(store, admins, notifier, sessions, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)

	return &otpFixture{db: db, svc: svc, notifier: notifier, sessions: sessions, now: &now}
}

func (f *otpFixture) codes(t *testing.T) []models.OneTimeCode {
	t.Helper()
	var codes []models.OneTimeCode
	require.NoError(t, f.db.Find(&codes).Error)
	return codes
}

func sequence(codes ...string) func() (string, error) {
	var mu sync.Mutex
	idx := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[idx%len(codes)]
		idx++
		return code, nil
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil)
	require.Error(t, err)
}

func TestRequestCodeUnknownAdmin(t *testing.T) {
	f := newOTPFixture(t)

	err := f.svc.RequestCode(context.Background(), "stranger@example.com")
	require.ErrorIs(t, err, services.ErrAdminNotFound)
	require.Empty(t, f.codes(t))
	require.Empty(t, f.notifier.sent)
}

func TestRequestCodeRejectsBlankEmail(t *testing.T) {
	f := newOTPFixture(t)

	require.ErrorIs(t, f.svc.RequestCode(context.Background(), "   "), ErrInvalidInput)
}

func TestRequestCodeStoresSixDigitCode(t *testing.T) {
	f := newOTPFixture(t)

	require.NoError(t, f.svc.RequestCode(context.Background(), " Admin@Portfolio.test "))

	sent := f.notifier.last(t)
	require.Equal(t, testutil.TestAdminEmail, sent.email)
	require.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), sent.code)
	require.Equal(t, 10*time.Minute, sent.ttl)

	codes := f.codes(t)
	require.Len(t, codes, 1)
	require.Equal(t, sent.code, codes[0].Code)
	require.Equal(t, testutil.TestAdminEmail, codes[0].Email)
	require.True(t, codes[0].ExpiresAt.Equal(f.now.Add(10*time.Minute)))
}

func TestRequestCodeSupersedesPreviousCode(t *testing.T) {
	f := newOTPFixture(t, WithCodeGenerator(sequence("111111", "222222")))
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, testutil.TestAdminEmail))
	require.NoError(t, f.svc.RequestCode(ctx, testutil.TestAdminEmail))

	codes := f.codes(t)
	require.Len(t, codes, 1)
	require.Equal(t, "222222", codes[0].Code)

	_, _, err := f.svc.VerifyCode(ctx, testutil.TestAdminEmail, "111111")
	require.ErrorIs(t, err, ErrInvalidOrExpired)

	_, _, err = f.svc.VerifyCode(ctx, testutil.TestAdminEmail, "222222")
	require.NoError(t, err)
}

func TestVerifyCodeScenario(t *testing.T) {
	f := newOTPFixture(t, WithCodeGenerator(sequence("482913")))
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, testutil.TestAdminEmail))
	code := f.notifier.last(t).code

	_, _, err := f.svc.VerifyCode(ctx, testutil.TestAdminEmail, "000000")
	require.ErrorIs(t, err, ErrInvalidOrExpired)

	session, admin, err := f.svc.VerifyCode(ctx, testutil.TestAdminEmail, code)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, testutil.TestAdminEmail, admin.Email)

	claims, err := f.sessions.Verify(session.Token)
	require.NoError(t, err)
	require.Equal(t, admin.ID, claims.AdminID)
	require.Equal(t, testutil.TestAdminName, claims.Name)

	_, _, err = f.svc.VerifyCode(ctx, testutil.TestAdminEmail, code)
	require.ErrorIs(t, err, ErrInvalidOrExpired)
	require.Empty(t, f.codes(t))
}

func TestVerifyCodeExpiredMatchesWrongCode(t *testing.T) {
	f := newOTPFixture(t, WithCodeGenerator(sequence("135790")))
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, testutil.TestAdminEmail))

	_, _, wrongErr := f.svc.VerifyCode(ctx, testutil.TestAdminEmail, "999999")

	*f.now = f.now.Add(10 * time.Minute)
	_, _, expiredErr := f.svc.VerifyCode(ctx, testutil.TestAdminEmail, "135790")

	require.ErrorIs(t, expiredErr, ErrInvalidOrExpired)
	require.Equal(t, wrongErr, expiredErr)
}

func TestVerifyCodeIsCaseInsensitiveOnEmail(t *testing.T) {
	f := newOTPFixture(t, WithCodeGenerator(sequence("246802")))
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, testutil.TestAdminEmail))

	_, admin, err := f.svc.VerifyCode(ctx, "ADMIN@portfolio.TEST", " 246802 ")
	require.NoError(t, err)
	require.Equal(t, testutil.TestAdminEmail, admin.Email)
}

func TestVerifyCodeRejectsBlankInput(t *testing.T) {
	f := newOTPFixture(t)

	_, _, err := f.svc.VerifyCode(context.Background(), "", "123456")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = f.svc.VerifyCode(context.Background(), testutil.TestAdminEmail, " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestVerifyCodeConcurrentAttemptsSucceedOnce(t *testing.T) {
	f := newOTPFixture(t, WithCodeGenerator(sequence("777111")))
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, testutil.TestAdminEmail))

	const attempts = 8
	var (
		wg       sync.WaitGroup
		start    = make(chan struct{})
		mu       sync.Mutex
		success  int
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, _, err := f.svc.VerifyCode(ctx, testutil.TestAdminEmail, "777111")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrInvalidOrExpired):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, 1, success)
	require.Equal(t, attempts-1, rejected)
}

func TestRequestCodeDeliveryFailureDiscardsCode(t *testing.T) {
	f := newOTPFixture(t, WithCodeGenerator(sequence("314159")))
	f.notifier.err = errors.New("smtp down")
	ctx := context.Background()

	err := f.svc.RequestCode(ctx, testutil.TestAdminEmail)
	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.Empty(t, f.codes(t))

	_, _, err = f.svc.VerifyCode(ctx, testutil.TestAdminEmail, "314159")
	require.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestRequestCodeDeliveryTimeout(t *testing.T) {
	f := newOTPFixture(t, WithDeliveryTimeout(20*time.Millisecond))
	f.svc.notifier = NotifierFunc(func(ctx context.Context, _, _ string, _ time.Duration) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := f.svc.RequestCode(context.Background(), testutil.TestAdminEmail)
	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Empty(t, f.codes(t))
}

func TestVerifyCodeAdminRemovedAfterRequest(t *testing.T) {
	f := newOTPFixture(t, WithCodeGenerator(sequence("864209")))
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, testutil.TestAdminEmail))
	require.NoError(t, f.db.Where("email = ?", testutil.TestAdminEmail).Delete(&models.Admin{}).Error)

	_, _, err := f.svc.VerifyCode(ctx, testutil.TestAdminEmail, "864209")
	require.ErrorIs(t, err, services.ErrAdminNotFound)
}

func TestPurgeExpired(t *testing.T) {
	f := newOTPFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestCode(ctx, testutil.TestAdminEmail))

	removed, err := f.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Zero(t, removed)

	*f.now = f.now.Add(11 * time.Minute)
	removed, err = f.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
	require.Empty(t, f.codes(t))
}
