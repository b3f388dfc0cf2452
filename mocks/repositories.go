package mocks

import (
	"sort"
	"strconv"
	"sync"

	"inkpress/models"
)

// In-memory repository doubles with the same compare-and-set semantics
// as the Postgres implementations, so concurrency contracts can be
// exercised without a database.

type MockManuscriptRepository struct {
	mu          sync.Mutex
	nextID      uint
	Manuscripts map[uint]*models.Manuscript
	Audits      []*models.AuditEntry
	// ReadGate, when set, runs after every GetByID outside the lock.
	// Tests use it as a barrier to force a lost-update interleaving.
	ReadGate func()
}

func NewMockManuscriptRepository() *MockManuscriptRepository {
	return &MockManuscriptRepository{Manuscripts: make(map[uint]*models.Manuscript)}
}

func (m *MockManuscriptRepository) Create(manuscript *models.Manuscript, entry *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	manuscript.ID = m.nextID
	copied := *manuscript
	m.Manuscripts[manuscript.ID] = &copied
	entry.TargetID = strconv.FormatUint(uint64(manuscript.ID), 10)
	m.Audits = append(m.Audits, entry)
	return nil
}

func (m *MockManuscriptRepository) GetByID(id uint) (*models.Manuscript, error) {
	m.mu.Lock()
	stored, ok := m.Manuscripts[id]
	var copied models.Manuscript
	if ok {
		copied = *stored
	}
	m.mu.Unlock()
	if !ok {
		return nil, models.ErrorNotFound{Entity: "manuscript", ID: strconv.FormatUint(uint64(id), 10)}
	}
	if m.ReadGate != nil {
		m.ReadGate()
	}
	return &copied, nil
}

func (m *MockManuscriptRepository) GetList(params models.ManuscriptListParams, status models.ManuscriptStatus) ([]models.Manuscript, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Manuscript
	for _, stored := range m.Manuscripts {
		if status != "" && stored.Status != status {
			continue
		}
		if params.AuthorID > 0 && stored.AuthorID != params.AuthorID {
			continue
		}
		matched = append(matched, *stored)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].SubmittedAt, matched[j].SubmittedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case params.SortOrder == "desc":
			return a.After(*b)
		default:
			return a.Before(*b)
		}
	})

	total := int64(len(matched))
	start := (params.Page - 1) * params.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *MockManuscriptRepository) ApplyTransition(manuscript *models.Manuscript, expectedVersion uint, entry *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Manuscripts[manuscript.ID]
	if !ok {
		return models.ErrorNotFound{Entity: "manuscript", ID: strconv.FormatUint(uint64(manuscript.ID), 10)}
	}
	if stored.LockVersion != expectedVersion {
		return models.ErrorConflict{Entity: "manuscript", ID: strconv.FormatUint(uint64(manuscript.ID), 10)}
	}

	copied := *manuscript
	copied.LockVersion = expectedVersion + 1
	m.Manuscripts[manuscript.ID] = &copied
	manuscript.LockVersion = copied.LockVersion
	m.Audits = append(m.Audits, entry)
	return nil
}

func (m *MockManuscriptRepository) CountPublishedByAuthor(authorID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, stored := range m.Manuscripts {
		if stored.AuthorID == authorID && stored.Status == models.StatusPublished {
			count++
		}
	}
	return count, nil
}

// AuditActions returns the recorded audit actions in append order.
func (m *MockManuscriptRepository) AuditActions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions := make([]string, 0, len(m.Audits))
	for _, entry := range m.Audits {
		actions = append(actions, entry.Action)
	}
	return actions
}

type MockAuthorProfileRepository struct {
	mu       sync.Mutex
	nextID   uint
	Profiles map[uint]*models.AuthorProfile
	Audits   []*models.AuditEntry
	// BookCounts overrides the derived book count per author id.
	BookCounts map[uint]int64
}

func NewMockAuthorProfileRepository() *MockAuthorProfileRepository {
	return &MockAuthorProfileRepository{
		Profiles:   make(map[uint]*models.AuthorProfile),
		BookCounts: make(map[uint]int64),
	}
}

func (m *MockAuthorProfileRepository) Create(profile *models.AuthorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	profile.ID = m.nextID
	copied := *profile
	m.Profiles[profile.AuthorID] = &copied
	return nil
}

func (m *MockAuthorProfileRepository) GetByAuthorID(authorID uint) (*models.AuthorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Profiles[authorID]
	if !ok {
		return nil, models.ErrorNotFound{Entity: "author profile", ID: strconv.FormatUint(uint64(authorID), 10)}
	}
	copied := *stored
	copied.BookCount = m.BookCounts[authorID]
	copied.Status = copied.DisplayStatus()
	return &copied, nil
}

func (m *MockAuthorProfileRepository) ApplyUpdate(profile *models.AuthorProfile, expectedVersion uint, entry *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Profiles[profile.AuthorID]
	if !ok {
		return models.ErrorNotFound{Entity: "author profile", ID: strconv.FormatUint(uint64(profile.AuthorID), 10)}
	}
	if stored.LockVersion != expectedVersion {
		return models.ErrorConflict{Entity: "author profile", ID: strconv.FormatUint(uint64(profile.AuthorID), 10)}
	}

	copied := *profile
	copied.LockVersion = expectedVersion + 1
	m.Profiles[profile.AuthorID] = &copied
	profile.LockVersion = copied.LockVersion
	m.Audits = append(m.Audits, entry)
	return nil
}

func (m *MockAuthorProfileRepository) ListPending(params models.VerificationListParams) ([]models.AuthorProfile, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []models.AuthorProfile
	for _, stored := range m.Profiles {
		if stored.VerificationRequested && !stored.IsVerified && !stored.Suspended {
			copied := *stored
			copied.BookCount = m.BookCounts[copied.AuthorID]
			copied.Status = copied.DisplayStatus()
			pending = append(pending, copied)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i].VerificationRequestedAt, pending[j].VerificationRequestedAt
		if a == nil || b == nil {
			return b == nil
		}
		return a.Before(*b)
	})

	total := int64(len(pending))
	start := (params.Page - 1) * params.Limit
	if start > len(pending) {
		start = len(pending)
	}
	end := start + params.Limit
	if end > len(pending) {
		end = len(pending)
	}
	return pending[start:end], total, nil
}

type MockUserRepository struct {
	mu       sync.Mutex
	nextID   uint
	Users    map[uint]*models.User
	ByEmail  map[string]*models.User
	Profiles []*models.AuthorProfile
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:   make(map[uint]*models.User),
		ByEmail: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	copied := *user
	m.Users[user.ID] = &copied
	m.ByEmail[user.Email] = &copied
	return nil
}

func (m *MockUserRepository) CreateWithProfile(user *models.User, profile *models.AuthorProfile) error {
	if err := m.Create(user); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	profile.AuthorID = user.ID
	m.Profiles = append(m.Profiles, profile)
	return nil
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Users[id]
	if !ok {
		return nil, models.ErrorNotFound{Entity: "user", ID: strconv.FormatUint(uint64(id), 10)}
	}
	copied := *stored
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.ByEmail[email]
	if !ok {
		return nil, models.ErrorNotFound{Entity: "user", ID: email}
	}
	copied := *stored
	return &copied, nil
}
