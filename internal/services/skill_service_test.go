package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/portfolio/internal/database/testutil"
	"github.com/charlesng35/portfolio/internal/models"
)

func TestSkillService_ListOrdering(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewSkillService(db)
	require.NoError(t, err)
	ctx := context.Background()

	for _, input := range []SkillInput{
		{Name: "React", Category: "Frontend", Level: 80, Order: 2},
		{Name: "Go", Category: "Backend", Level: 90, Order: 1},
		{Name: "CSS", Category: "Frontend", Level: 70, Order: 1},
	} {
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	skills, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 3)
	require.Equal(t, []string{"Go", "CSS", "React"}, []string{skills[0].Name, skills[1].Name, skills[2].Name})
	require.Equal(t, models.DefaultSkillIcon, skills[0].Icon)
}

func TestSkillService_ValidatesLevel(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewSkillService(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, SkillInput{Name: "Go", Category: "Backend", Level: 101})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, SkillInput{Name: "Go", Category: "Backend", Level: -1})
	require.ErrorIs(t, err, ErrInvalidInput)

	created, err := svc.Create(ctx, SkillInput{Name: "Go", Category: "Backend", Level: 100, Icon: "Server"})
	require.NoError(t, err)
	require.Equal(t, "Server", created.Icon)

	level := 150
	_, err = svc.Update(ctx, created.ID, UpdateSkillInput{Level: &level})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSkillService_UpdateAndDelete(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewSkillService(db)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Create(ctx, SkillInput{Name: "Go", Category: "Backend", Level: 50})
	require.NoError(t, err)

	level := 75
	icon := ""
	updated, err := svc.Update(ctx, created.ID, UpdateSkillInput{Level: &level, Icon: &icon})
	require.NoError(t, err)
	require.Equal(t, 75, updated.Level)
	require.Equal(t, models.DefaultSkillIcon, updated.Icon)

	_, err = svc.Update(ctx, "missing", UpdateSkillInput{Level: &level})
	require.ErrorIs(t, err, ErrSkillNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrSkillNotFound)
}
