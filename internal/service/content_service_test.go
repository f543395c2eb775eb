package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	appErrors "github.com/noah-isme/arcade-hub-api/pkg/errors"
)

func newContentServiceForTest() (*ContentService, *memContentRepo, *recordingPublisher) {
	repo := newMemContentRepo()
	pub := &recordingPublisher{}
	svc := NewContentService(repo, nil, NewChangeNotifier(nil, pub, nil), nil)
	return svc, repo, pub
}

func TestContentServiceSeedsAbsentDocuments(t *testing.T) {
	svc, repo, _ := newContentServiceForTest()
	ctx := context.Background()

	rosters, err := svc.Rosters(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRosters(), rosters)

	week, err := svc.Timetable(ctx)
	require.NoError(t, err)
	assert.Len(t, week, 5)
	assert.Equal(t, "Wednesday", week[2].Day)
	assert.Equal(t, "14:00", week[2].Slots[0].End)

	settings, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFormURL, settings.Settings.GoogleFormURL)
	assert.Equal(t, models.DefaultLists(), settings.Lists)

	assert.Len(t, repo.docs, 3)
	assert.Zero(t, repo.puts)
}

func TestContentServiceSettingsLegacyShape(t *testing.T) {
	svc, repo, _ := newContentServiceForTest()
	repo.putRaw(models.ContentSettings, `{"settings":{"google_form_url":"https://example.com/form"}}`)

	settings, err := svc.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/form", settings.Settings.GoogleFormURL)
	assert.Equal(t, models.DefaultLists(), settings.Lists)
}

func TestContentServiceLoadError(t *testing.T) {
	svc, repo, _ := newContentServiceForTest()
	repo.getErr = errors.New("db down")

	_, err := svc.Rosters(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrorCode(err))
}

func TestContentServiceAddPlayer(t *testing.T) {
	svc, repo, pub := newContentServiceForTest()
	ctx := context.Background()

	rosters, err := svc.AddPlayer(ctx, "Rocket League", models.Player{Name: "Ana", Handle: "aerial"}, "admin-1")
	require.NoError(t, err)
	assert.Len(t, rosters["Rocket League"], 1)
	assert.Len(t, rosters["Valorant"], 1)
	assert.Equal(t, []string{models.TopicRosters}, pub.published())

	stored := repo.docs[models.ContentRosters]
	require.NotNil(t, stored.UpdatedBy)
	assert.Equal(t, "admin-1", *stored.UpdatedBy)
}

func TestContentServiceAddPlayerValidation(t *testing.T) {
	svc, _, pub := newContentServiceForTest()
	ctx := context.Background()

	_, err := svc.AddPlayer(ctx, "Valorant", models.Player{Name: "Ana"}, "admin")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(err))

	_, err = svc.AddPlayer(ctx, "Chess", models.Player{Name: "Ana", Handle: "a"}, "admin")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(err))

	_, err = svc.AddPlayer(ctx, "", models.Player{Name: "Ana", Handle: "a"}, "admin")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(err))

	assert.Empty(t, pub.published())
}

func TestContentServiceRemovePlayerKeepsGameKey(t *testing.T) {
	svc, _, _ := newContentServiceForTest()
	ctx := context.Background()

	rosters, err := svc.RemovePlayer(ctx, "Valorant", 0, "admin")
	require.NoError(t, err)
	players, ok := rosters["Valorant"]
	assert.True(t, ok)
	assert.Empty(t, players)

	again, err := svc.Rosters(ctx)
	require.NoError(t, err)
	_, ok = again["Valorant"]
	assert.True(t, ok)
}

func TestContentServiceRemovePlayerNotFound(t *testing.T) {
	svc, _, _ := newContentServiceForTest()
	ctx := context.Background()

	_, err := svc.RemovePlayer(ctx, "Valorant", 3, "admin")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(err))

	_, err = svc.RemovePlayer(ctx, "Tetris", 0, "admin")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(err))
}

func TestContentServiceReplaceTimetable(t *testing.T) {
	svc, _, pub := newContentServiceForTest()
	ctx := context.Background()

	req := ReplaceTimetableRequest{Schedule: []models.DaySchedule{
		{Day: "Maandag", Slots: []models.TimeSlot{
			{Start: "09:00", End: "12:00", Label: "Team practice", Type: models.SlotTypeTeam},
			{Start: "", End: "", Label: "TBD", Type: models.SlotTypeOpen},
		}},
	}}
	week, err := svc.ReplaceTimetable(ctx, req, "admin")
	require.NoError(t, err)
	assert.Len(t, week, 1)
	assert.Equal(t, []string{models.TopicTimetable, models.TopicStatus}, pub.published())

	stored, err := svc.Timetable(ctx)
	require.NoError(t, err)
	assert.Equal(t, req.Schedule, stored)
}

func TestContentServiceReplaceTimetableValidation(t *testing.T) {
	svc, _, _ := newContentServiceForTest()
	ctx := context.Background()

	cases := map[string]models.DaySchedule{
		"bad type":    {Day: "Monday", Slots: []models.TimeSlot{{Start: "09:00", End: "10:00", Type: "party"}}},
		"bad time":    {Day: "Monday", Slots: []models.TimeSlot{{Start: "9:00", End: "10:00", Type: models.SlotTypeOpen}}},
		"hour range":  {Day: "Monday", Slots: []models.TimeSlot{{Start: "25:00", End: "26:00", Type: models.SlotTypeOpen}}},
		"bad weekday": {Day: "Someday", Slots: nil},
	}
	for name, day := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ReplaceTimetable(ctx, ReplaceTimetableRequest{Schedule: []models.DaySchedule{day}}, "admin")
			assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(err))
		})
	}
}

func TestContentServiceUpdateSettingsKeepsLists(t *testing.T) {
	svc, repo, pub := newContentServiceForTest()
	ctx := context.Background()

	custom := models.Lists{RosterGames: []string{"Chess"}, HighscoreGames: []string{"Snake"}, EventTypes: []string{"Stream"}}
	_, err := svc.UpdateLists(ctx, custom, "admin")
	require.NoError(t, err)

	doc, err := svc.UpdateSettings(ctx, models.SiteSettings{GoogleFormURL: "https://forms.example.com/x"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "https://forms.example.com/x", doc.Settings.GoogleFormURL)
	assert.Equal(t, custom, doc.Lists)
	assert.Equal(t, 2, repo.merges)
	assert.Equal(t, []string{models.TopicSettings, models.TopicSettings}, pub.published())

	_, err = svc.UpdateSettings(ctx, models.SiteSettings{GoogleFormURL: "not a url"}, "admin")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(err))
}

func TestContentServiceUpdateListsKeepsSettings(t *testing.T) {
	svc, _, _ := newContentServiceForTest()
	ctx := context.Background()

	_, err := svc.UpdateSettings(ctx, models.SiteSettings{GoogleFormURL: "https://forms.example.com/y"}, "admin")
	require.NoError(t, err)

	doc, err := svc.UpdateLists(ctx, models.Lists{RosterGames: []string{"Valorant"}}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "https://forms.example.com/y", doc.Settings.GoogleFormURL)
	assert.Equal(t, []string{"Valorant"}, doc.Lists.RosterGames)
	assert.Equal(t, []string{}, doc.Lists.EventTypes)
}

func TestContentServiceWriteFailure(t *testing.T) {
	svc, repo, pub := newContentServiceForTest()
	ctx := context.Background()
	_, err := svc.Rosters(ctx)
	require.NoError(t, err)

	repo.writeErr = errors.New("disk full")
	_, err = svc.ReplaceRosters(ctx, ReplaceRostersRequest{Rosters: models.Rosters{}}, "admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrorCode(err))
	assert.Empty(t, pub.published())
}

func TestContentServiceSeedDefaults(t *testing.T) {
	svc, repo, _ := newContentServiceForTest()
	repo.putRaw(models.ContentRosters, `{"data":{}}`)

	created, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		models.ContentRosters:   false,
		models.ContentTimetable: true,
		models.ContentSettings:  true,
	}, created)
}
