package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"talentpool/internal/common"
	"talentpool/internal/domain/advert"
	"talentpool/internal/domain/application"
	"talentpool/internal/domain/auth"
	"talentpool/internal/domain/user"
)

// Store keeps every table in process memory. It backs local runs without
// DATABASE_URL and the service tests.
type Store struct {
	mu           sync.RWMutex
	adverts      map[common.UUID]advert.Advert
	applications map[common.UUID]application.Application
	users        map[common.UUID]user.User
	tokens       map[string]auth.Token
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		adverts:      make(map[common.UUID]advert.Advert),
		applications: make(map[common.UUID]application.Application),
		users:        make(map[common.UUID]user.User),
		tokens:       make(map[string]auth.Token),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source used for created_at/updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Adverts() *AdvertRepository {
	return &AdvertRepository{store: s}
}

func (s *Store) Applications() *ApplicationRepository {
	return &ApplicationRepository{store: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Tokens() *TokenRepository {
	return &TokenRepository{store: s}
}

func (s *Store) applicantCount(advertID common.UUID) int {
	count := 0
	for _, item := range s.applications {
		if item.AdvertID == advertID {
			count++
		}
	}
	return count
}

type AdvertRepository struct {
	store *Store
}

func (r *AdvertRepository) Create(_ context.Context, item advert.Advert) (*advert.Advert, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = common.NewUUID()
	}
	now := r.store.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.ApplicantCount = 0
	r.store.adverts[item.ID] = item
	return &item, nil
}

func (r *AdvertRepository) Update(_ context.Context, item advert.Advert) (*advert.Advert, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.adverts[item.ID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job advert not found", nil)
	}
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = r.store.now()
	r.store.adverts[item.ID] = item
	item.ApplicantCount = r.store.applicantCount(item.ID)
	return &item, nil
}

func (r *AdvertRepository) GetByID(_ context.Context, id common.UUID) (*advert.Advert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	item, ok := r.store.adverts[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job advert not found", nil)
	}
	item.ApplicantCount = r.store.applicantCount(id)
	return &item, nil
}

func (r *AdvertRepository) Delete(_ context.Context, id common.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item, ok := r.store.adverts[id]
	if !ok || item.IsPublished {
		return common.NewError(common.CodeNotFound, "job advert not found", nil)
	}
	delete(r.store.adverts, id)
	for appID, app := range r.store.applications {
		if app.AdvertID == id {
			delete(r.store.applications, appID)
		}
	}
	return nil
}

func (r *AdvertRepository) List(_ context.Context, limit, offset int) (advert.Page, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]advert.Advert, 0, len(r.store.adverts))
	for id, item := range r.store.adverts {
		item.ApplicantCount = r.store.applicantCount(id)
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if advert.Less(items[i], items[j]) {
			return true
		}
		if advert.Less(items[j], items[i]) {
			return false
		}
		return strings.Compare(items[i].ID.String(), items[j].ID.String()) < 0
	})
	page := advert.Page{Total: len(items)}
	if offset >= len(items) {
		page.Items = []advert.Advert{}
		return page, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	page.Items = items[offset:end]
	return page, nil
}

func (r *AdvertRepository) ListDue(_ context.Context, now time.Time) ([]advert.Advert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]advert.Advert, 0)
	for _, item := range r.store.adverts {
		if item.Due(now) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishAt.Before(*items[j].PublishAt)
	})
	return items, nil
}

func (r *AdvertRepository) PromoteScheduled(_ context.Context, id common.UUID, now time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item, ok := r.store.adverts[id]
	if !ok || !item.Due(now) {
		return false, nil
	}
	item.IsPublished = true
	item.IsScheduled = false
	publishedAt := now
	item.PublishedAt = &publishedAt
	item.UpdatedAt = r.store.now()
	r.store.adverts[id] = item
	return true, nil
}

type ApplicationRepository struct {
	store *Store
}

func (r *ApplicationRepository) Create(_ context.Context, item application.Application) (*application.Application, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.adverts[item.AdvertID]; !ok {
		return nil, common.NewValidationError("invalid job application", map[string]string{"job_advert": "job advert does not exist"})
	}
	if item.ID.IsZero() {
		item.ID = common.NewUUID()
	}
	item.CreatedAt = r.store.now()
	r.store.applications[item.ID] = item
	return &item, nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id common.UUID) (*application.Application, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	item, ok := r.store.applications[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job application not found", nil)
	}
	return &item, nil
}

func (r *ApplicationRepository) ListByAdvert(_ context.Context, advertID common.UUID) ([]application.Application, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]application.Application, 0)
	for _, item := range r.store.applications {
		if item.AdvertID == advertID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *ApplicationRepository) Delete(_ context.Context, id common.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.applications[id]; !ok {
		return common.NewError(common.CodeNotFound, "job application not found", nil)
	}
	delete(r.store.applications, id)
	return nil
}

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(_ context.Context, item user.User) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Username == item.Username {
			return nil, common.NewError(common.CodeConflict, "username already taken", nil)
		}
	}
	if item.ID.IsZero() {
		item.ID = common.NewUUID()
	}
	item.CreatedAt = r.store.now()
	r.store.users[item.ID] = item
	return &item, nil
}

func (r *UserRepository) GetByID(_ context.Context, id common.UUID) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	item, ok := r.store.users[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return &item, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, item := range r.store.users {
		if item.Username == username {
			found := item
			return &found, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

type TokenRepository struct {
	store *Store
}

func (r *TokenRepository) Replace(_ context.Context, token auth.Token) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for hash, stored := range r.store.tokens {
		if stored.UserID == token.UserID {
			delete(r.store.tokens, hash)
		}
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.store.now()
	}
	r.store.tokens[token.Hash] = token
	return nil
}

func (r *TokenRepository) GetByHash(_ context.Context, hash string) (*auth.Token, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	token, ok := r.store.tokens[hash]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "token not found", nil)
	}
	return &token, nil
}

func (r *TokenRepository) DeleteByHash(_ context.Context, hash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.tokens, hash)
	return nil
}
