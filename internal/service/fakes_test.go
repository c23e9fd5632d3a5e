package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

// memStore keeps tables and participants in memory. WithinTableLock serializes
// callers and rolls every change back when fn fails.
type memStore struct {
	lock sync.Mutex
	mu   sync.Mutex

	tables       map[uint]domain.Table
	participants map[uint]domain.Participant
	seq          map[uint]int
	nextTable    uint
	nextPart     uint
}

func newMemStore() *memStore {
	return &memStore{
		tables:       make(map[uint]domain.Table),
		participants: make(map[uint]domain.Participant),
		seq:          make(map[uint]int),
	}
}

type memSnapshot struct {
	tables       map[uint]domain.Table
	participants map[uint]domain.Participant
	seq          map[uint]int
	nextTable    uint
	nextPart     uint
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		tables:       make(map[uint]domain.Table, len(s.tables)),
		participants: make(map[uint]domain.Participant, len(s.participants)),
		seq:          make(map[uint]int, len(s.seq)),
		nextTable:    s.nextTable,
		nextPart:     s.nextPart,
	}
	for k, v := range s.tables {
		snap.tables[k] = v
	}
	for k, v := range s.participants {
		snap.participants[k] = v
	}
	for k, v := range s.seq {
		snap.seq[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = snap.tables
	s.participants = snap.participants
	s.seq = snap.seq
	s.nextTable = snap.nextTable
	s.nextPart = snap.nextPart
}

func (s *memStore) WithinTableLock(ctx context.Context, tableID uint, fn func(tx RegistrationTx) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, err := s.Tables().FindByID(ctx, tableID); err != nil {
		return err
	}

	snap := s.snapshot()
	if err := fn(RegistrationTx{Participants: memParticipants{s}, Tables: memTables{s}}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) Participants() ParticipantRepository {
	return memParticipants{s}
}

func (s *memStore) Tables() TableRepository {
	return memTables{s}
}

// addTable stores table as is, keeping its status.
func (s *memStore) addTable(table domain.Table) domain.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTable++
	table.ID = s.nextTable
	s.tables[table.ID] = table
	return table
}

func (s *memStore) table(id uint) domain.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[id]
}

func (s *memStore) participant(id uint) domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participants[id]
}

func (s *memStore) byStatus(tableID uint, status domain.ParticipantStatus) []domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Participant
	for _, p := range s.participants {
		if p.TableID == tableID && p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memParticipants struct {
	s *memStore
}

func sameIdentity(p domain.Participant, identity domain.Identity) bool {
	if identity.UserID != nil {
		return p.UserID != nil && *p.UserID == *identity.UserID
	}
	return p.Guest != nil && p.Guest.Email == identity.Email
}

func (r memParticipants) FindActiveByIdentity(_ context.Context, tableID uint, identity domain.Identity) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.participants {
		if p.TableID == tableID && p.IsActive() && sameIdentity(p, identity) {
			return p, nil
		}
	}
	return domain.Participant{}, domain.ErrParticipantNotFound
}

func (r memParticipants) CountConfirmed(_ context.Context, tableID uint, role domain.ParticipantRole) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.participants {
		if p.TableID == tableID && p.Role == role && p.Status == domain.ParticipantConfirmed {
			n++
		}
	}
	return n, nil
}

func (r memParticipants) FindByID(_ context.Context, id uint) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[id]
	if !ok {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return p, nil
}

func (r memParticipants) FindByIdentity(_ context.Context, tableID uint, identity domain.Identity) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.participants {
		if p.TableID == tableID && sameIdentity(p, identity) {
			return p, nil
		}
	}
	return domain.Participant{}, domain.ErrParticipantNotFound
}

func (r memParticipants) FindByCancellationToken(_ context.Context, token string) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.participants {
		if p.Guest != nil && p.Guest.CancellationToken == token {
			return p, nil
		}
	}
	return domain.Participant{}, domain.ErrParticipantNotFound
}

func (r memParticipants) NextWaitingListPosition(_ context.Context, tableID uint) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq[tableID]++
	return r.s.seq[tableID], nil
}

func (r memParticipants) FirstWaitingListEntry(_ context.Context, tableID uint, role domain.ParticipantRole) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var (
		first domain.Participant
		found bool
	)
	for _, p := range r.s.participants {
		if p.TableID != tableID || p.Role != role || p.Status != domain.ParticipantWaitingList {
			continue
		}
		if !found || *p.WaitingListPosition < *first.WaitingListPosition {
			first, found = p, true
		}
	}
	if !found {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return first, nil
}

func (r memParticipants) Save(_ context.Context, p domain.Participant) (domain.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.participants {
		if other.ID != p.ID && other.TableID == p.TableID && sameIdentity(other, p.Identity()) {
			return domain.Participant{}, domain.ErrAlreadyRegistered
		}
	}
	if p.ID == 0 {
		r.s.nextPart++
		p.ID = r.s.nextPart
	}
	r.s.participants[p.ID] = p
	return p, nil
}

type memTables struct {
	s *memStore
}

func (r memTables) FindByID(_ context.Context, id uint) (domain.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tables[id]
	if !ok {
		return domain.Table{}, domain.ErrTableNotFound
	}
	return t, nil
}

func (r memTables) Save(_ context.Context, t domain.Table) (domain.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tables[t.ID]; !ok {
		return domain.Table{}, domain.ErrTableNotFound
	}
	r.s.tables[t.ID] = t
	return t, nil
}

func (r memTables) Create(_ context.Context, t domain.Table) (domain.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextTable++
	t.ID = r.s.nextTable
	r.s.tables[t.ID] = t
	return t, nil
}

func (r memTables) ListByStatus(_ context.Context, statuses []domain.TableStatus, startsBefore time.Time) ([]domain.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Table
	for _, t := range r.s.tables {
		if t.Window.StartsAt().After(startsBefore) {
			continue
		}
		for _, status := range statuses {
			if t.Status == status {
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTables) CountEventTablesStartingBetween(_ context.Context, eventID string, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, t := range r.s.tables {
		if t.EventID == nil || *t.EventID != eventID || t.Status == domain.TableCancelled {
			continue
		}
		if !t.Window.StartsAt().Before(from) && t.Window.StartsAt().Before(to) {
			n++
		}
	}
	return n, nil
}

type memConfigs struct {
	configs map[string]domain.EventGameTableConfig
}

func newMemConfigs(configs ...domain.EventGameTableConfig) *memConfigs {
	m := &memConfigs{configs: make(map[string]domain.EventGameTableConfig)}
	for _, c := range configs {
		m.configs[c.EventID] = c
	}
	return m
}

func (m *memConfigs) FindByEvent(_ context.Context, eventID string) (domain.EventGameTableConfig, error) {
	c, ok := m.configs[eventID]
	if !ok {
		return domain.EventGameTableConfig{}, domain.ErrEventConfigNotFound
	}
	return c, nil
}

func (m *memConfigs) Save(_ context.Context, c domain.EventGameTableConfig) (domain.EventGameTableConfig, error) {
	m.configs[c.EventID] = c
	return c, nil
}

type memUsers struct {
	users map[uint]domain.User
}

func newMemUsers(users ...domain.User) *memUsers {
	m := &memUsers{users: make(map[uint]domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, u domain.User) (domain.User, error) {
	u.ID = uint(len(m.users) + 1)
	m.users[u.ID] = u
	return u, nil
}

type memMembers []domain.Member

func (m memMembers) GetActiveMembers(context.Context) ([]domain.Member, error) {
	return m, nil
}

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Dispatch(_ context.Context, events ...domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventName())
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type prefixTranslator struct{}

func (prefixTranslator) Translate(reason domain.Reason) string {
	if reason == domain.ReasonNone {
		return ""
	}
	return "msg:" + string(reason)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
