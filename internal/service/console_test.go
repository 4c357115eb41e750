package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monalisa-XD/Academix/internal/models"
)

func newTestStores() (*fakeStore[models.Faculty], *fakeStore[models.Student], RosterStores) {
	faculty := newFacultyStore(models.Faculty{ID: "f1", Name: "Amy", Department: "Degree"})
	students := &fakeStore[models.Student]{list: []models.Student{{ID: "s1", Name: "Ravi", Semester: "1"}}}
	return faculty, students, RosterStores{Faculty: faculty, Students: students}
}

func TestNormalizeTab(t *testing.T) {
	for in, want := range map[string]string{"faculty": TabFaculty, "Faculties": TabFaculty, " students ": TabStudents, "student": TabStudents} {
		got, err := NormalizeTab(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := NormalizeTab("courses")
	assert.Error(t, err)
}

func TestWorkspaceOpenLoadsOnce(t *testing.T) {
	facultyStore, _, stores := newTestStores()
	ws := NewWorkspace(stores, nil)

	tab, err := ws.Open(context.Background(), TabFaculty)
	require.NoError(t, err)
	assert.True(t, tab.Loaded())
	assert.Equal(t, EntityFaculties, tab.Entity())

	facultyStore.list = append(facultyStore.list, models.Faculty{ID: "f2", Name: "Bob"})
	tab, err = ws.Open(context.Background(), TabFaculty)
	require.NoError(t, err)
	assert.Equal(t, 1, tab.View().Pagination.TotalCount)
}

func TestWorkspaceOpenReportsLoadFailure(t *testing.T) {
	_, studentStore, stores := newTestStores()
	studentStore.listErr = errors.New("backend down")
	ws := NewWorkspace(stores, nil)

	tab, err := ws.Open(context.Background(), TabStudents)
	require.Error(t, err)
	require.NotNil(t, tab)
	assert.False(t, tab.Loaded())
}

func TestWorkspaceActivateTabRemounts(t *testing.T) {
	facultyStore, _, stores := newTestStores()
	ws := NewWorkspace(stores, nil)
	assert.Equal(t, TabFaculty, ws.ActiveTab())

	tab, err := ws.Open(context.Background(), TabFaculty)
	require.NoError(t, err)
	tab.SetSearchTerm("zzz")
	tab.BeginCreate()
	before := ws.Faculty()

	facultyStore.list = append(facultyStore.list, models.Faculty{ID: "f2", Name: "Bob"})
	tab, err = ws.ActivateTab(context.Background(), TabFaculty)
	require.NoError(t, err)

	view := tab.View()
	assert.Empty(t, view.Search)
	assert.Equal(t, models.EditModeNone, view.EditMode)
	assert.Equal(t, 2, view.Pagination.TotalCount)
	assert.NotSame(t, before, ws.Faculty())

	_, err = ws.ActivateTab(context.Background(), "students")
	require.NoError(t, err)
	assert.Equal(t, TabStudents, ws.ActiveTab())
	assert.True(t, ws.Students().Loaded())
}

func TestConsoleWorkspacesPerSession(t *testing.T) {
	_, _, stores := newTestStores()
	console := NewConsole(stores, nil)
	sessionA := &models.Session{ID: "session-a"}

	a := console.Workspace(sessionA)
	assert.Same(t, a, console.Workspace(sessionA))
	assert.NotSame(t, a, console.Workspace(&models.Session{ID: "session-b"}))
	assert.Equal(t, 2, console.Len())

	console.Drop("session-a")
	assert.Equal(t, 1, console.Len())
	assert.NotSame(t, a, console.Workspace(sessionA))
}

func TestConsoleDropsExpiredWorkspaces(t *testing.T) {
	_, _, stores := newTestStores()
	console := NewConsole(stores, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	console.now = func() time.Time { return now }

	for _, id := range []string{"s1", "s2", "s3"} {
		console.Workspace(&models.Session{ID: id, ExpiresAt: now.Add(time.Minute)})
	}
	console.Workspace(&models.Session{ID: "long", ExpiresAt: now.Add(time.Hour)})
	require.Equal(t, 4, console.Len())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 3, console.Sweep())
	assert.Equal(t, 1, console.Len())

	now = now.Add(2 * time.Hour)
	console.Workspace(&models.Session{ID: "fresh", ExpiresAt: now.Add(time.Hour)})
	assert.Equal(t, 1, console.Len())
}

func TestConsoleRunSweeperStopsWithContext(t *testing.T) {
	_, _, stores := newTestStores()
	console := NewConsole(stores, nil)
	console.Workspace(&models.Session{ID: "gone", ExpiresAt: time.Now().Add(-time.Second)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		console.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return console.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
