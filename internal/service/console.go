package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/internal/repository"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

// Console tabs.
const (
	TabFaculty  = "faculty"
	TabStudents = "students"
)

// Tabs lists the console tabs in sidebar order.
var Tabs = []string{TabFaculty, TabStudents}

// NormalizeTab maps a tab or collection name onto a console tab.
func NormalizeTab(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TabFaculty, EntityFaculties:
		return TabFaculty, nil
	case TabStudents, "student":
		return TabStudents, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown tab %q", name))
	}
}

// RosterStores are the remote collections behind the console tabs.
type RosterStores struct {
	Faculty  RecordStore[models.Faculty]
	Students RecordStore[models.Student]
}

// NewRemoteRosterStores binds both collections to the roster backend behind client.
func NewRemoteRosterStores(client *repository.RemoteClient) RosterStores {
	return RosterStores{
		Faculty:  repository.NewRemoteStore(client, EntityFaculties, func(f models.Faculty) string { return f.ID }),
		Students: repository.NewRemoteStore(client, EntityStudents, func(s models.Student) string { return s.ID }),
	}
}

// Workspace is one signed-in caller's console: a controller per tab and the
// active tab. Tabs load the first time they are opened.
type Workspace struct {
	stores RosterStores
	logger *zap.Logger

	mu       sync.Mutex
	faculty  *RosterController[models.Faculty]
	students *RosterController[models.Student]
	mounted  map[string]bool
	active   string
}

// NewWorkspace builds a workspace with the faculty tab active and nothing loaded.
func NewWorkspace(stores RosterStores, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workspace{stores: stores, logger: logger, mounted: map[string]bool{}, active: TabFaculty}
	w.faculty = NewRosterController(FacultySchema(), stores.Faculty, logger)
	w.students = NewRosterController(StudentSchema(), stores.Students, logger)
	return w
}

// ActiveTab returns the selected tab.
func (w *Workspace) ActiveTab() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Faculty returns the faculty controller.
func (w *Workspace) Faculty() *RosterController[models.Faculty] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.faculty
}

// Students returns the student controller.
func (w *Workspace) Students() *RosterController[models.Student] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.students
}

// Tab returns the controller behind name without loading it.
func (w *Workspace) Tab(name string) (RosterTab, error) {
	tab, err := NormalizeTab(name)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tabLocked(tab), nil
}

func (w *Workspace) tabLocked(tab string) RosterTab {
	if tab == TabStudents {
		return w.students
	}
	return w.faculty
}

// Open returns the controller behind name, loading it on first use. A load
// failure is returned next to the controller, which stays usable.
func (w *Workspace) Open(ctx context.Context, name string) (RosterTab, error) {
	tab, err := NormalizeTab(name)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	ctrl := w.tabLocked(tab)
	first := !w.mounted[tab]
	w.mounted[tab] = true
	w.mu.Unlock()

	if !first {
		return ctrl, nil
	}
	return ctrl, ctrl.Load(ctx)
}

// ActivateTab selects name and remounts it: the tab's state is discarded and
// the collection reloaded.
func (w *Workspace) ActivateTab(ctx context.Context, name string) (RosterTab, error) {
	tab, err := NormalizeTab(name)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	var ctrl RosterTab
	switch tab {
	case TabStudents:
		w.students = NewRosterController(StudentSchema(), w.stores.Students, w.logger)
		ctrl = w.students
	default:
		w.faculty = NewRosterController(FacultySchema(), w.stores.Faculty, w.logger)
		ctrl = w.faculty
	}
	w.active = tab
	w.mounted[tab] = true
	w.mu.Unlock()

	return ctrl, ctrl.Load(ctx)
}

// Console holds one Workspace per session. A workspace lives until its
// session logs out or expires.
type Console struct {
	stores RosterStores
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*sessionWorkspace
}

type sessionWorkspace struct {
	ws        *Workspace
	expiresAt time.Time
}

// NewConsole builds an empty Console over stores.
func NewConsole(stores RosterStores, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{stores: stores, logger: logger, now: time.Now, workspaces: map[string]*sessionWorkspace{}}
}

// Workspace returns the workspace of session, creating it on first use.
// Workspaces of expired sessions are discarded on the way.
func (c *Console) Workspace(session *models.Session) *Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	entry, ok := c.workspaces[session.ID]
	if !ok {
		entry = &sessionWorkspace{ws: NewWorkspace(c.stores, c.logger.With(zap.String("session_id", session.ID)))}
		c.workspaces[session.ID] = entry
	}
	entry.expiresAt = session.ExpiresAt
	return entry.ws
}

// Drop discards the workspace of sessionID.
func (c *Console) Drop(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.workspaces, sessionID)
}

// Sweep discards the workspaces of expired sessions and returns how many
// were removed.
func (c *Console) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

func (c *Console) sweepLocked() int {
	now := c.now()
	removed := 0
	for id, entry := range c.workspaces {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(c.workspaces, id)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("expired workspaces dropped", zap.Int("count", removed))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *Console) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Len returns the number of open workspaces.
func (c *Console) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.workspaces)
}
