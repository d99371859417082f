// Package memory implements the repositories on process memory. A
// transaction works on a copy of the data set and swaps it in on success, so
// it behaves like a serializable database transaction.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/repositories"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
)

type dataset struct {
	users    map[int64]models.User
	mentors  map[int64]models.MentorProfile // by user id
	students map[int64]models.StudentProfile
	requests map[int64]models.Request
	messages map[int64]models.Message

	nextUserID    int64
	nextProfileID int64
	nextRequestID int64
	nextMessageID int64
}

func newDataset() *dataset {
	return &dataset{
		users:    make(map[int64]models.User),
		mentors:  make(map[int64]models.MentorProfile),
		students: make(map[int64]models.StudentProfile),
		requests: make(map[int64]models.Request),
		messages: make(map[int64]models.Message),
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		users:         make(map[int64]models.User, len(d.users)),
		mentors:       make(map[int64]models.MentorProfile, len(d.mentors)),
		students:      make(map[int64]models.StudentProfile, len(d.students)),
		requests:      make(map[int64]models.Request, len(d.requests)),
		messages:      make(map[int64]models.Message, len(d.messages)),
		nextUserID:    d.nextUserID,
		nextProfileID: d.nextProfileID,
		nextRequestID: d.nextRequestID,
		nextMessageID: d.nextMessageID,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.mentors {
		c.mentors[k] = v
	}
	for k, v := range d.students {
		c.students[k] = v
	}
	for k, v := range d.requests {
		c.requests[k] = v
	}
	for k, v := range d.messages {
		c.messages[k] = v
	}
	return c
}

// Store is an in-memory repositories.Store.
type Store struct {
	mu   sync.RWMutex
	data *dataset
	now  func() time.Time
	last time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{data: newDataset(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns a strictly increasing UTC time. Callers hold mu.
func (s *Store) timestamp() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) root() *view { return &view{store: s} }

func (s *Store) Users() repositories.UserRepository       { return userRepo{s.root()} }
func (s *Store) Mentors() repositories.MentorRepository   { return mentorRepo{s.root()} }
func (s *Store) Students() repositories.StudentRepository { return studentRepo{s.root()} }
func (s *Store) Requests() repositories.RequestRepository { return requestRepo{s.root()} }
func (s *Store) Messages() repositories.MessageRepository { return messageRepo{s.root()} }

// WithinTransaction runs fn against a private copy of the data and publishes
// it when fn succeeds. Transactions are serialized.
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	return s.root().WithinTransaction(ctx, fn)
}

// view is either the root store or a running transaction.
type view struct {
	store *Store
	tx    *dataset
}

func (v *view) Users() repositories.UserRepository       { return userRepo{v} }
func (v *view) Mentors() repositories.MentorRepository   { return mentorRepo{v} }
func (v *view) Students() repositories.StudentRepository { return studentRepo{v} }
func (v *view) Requests() repositories.RequestRepository { return requestRepo{v} }
func (v *view) Messages() repositories.MessageRepository { return messageRepo{v} }

func (v *view) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	if v.tx != nil {
		return fn(ctx, v)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, &view{store: s, tx: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (v *view) read(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.data)
}

// write applies a single statement. Outside a transaction the statement runs
// on a copy so a failure leaves no partial change.
func (v *view) write(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	work := v.store.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	v.store.data = work
	return nil
}

type userRepo struct{ v *view }

func (r userRepo) Create(ctx context.Context, user *models.User) error {
	return r.v.write(ctx, func(d *dataset) error {
		for _, u := range d.users {
			if u.Username == user.Username {
				return apperrors.NewCodedValidationError(apperrors.CodeUsernameTaken, "Username already taken")
			}
		}
		d.nextUserID++
		user.ID = d.nextUserID
		user.CreatedAt = r.v.store.timestamp()
		d.users[user.ID] = *user
		return nil
	})
}

func (r userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := r.v.read(ctx, func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return apperrors.NewResourceNotFoundError("User not found")
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var out *models.User
	err := r.v.read(ctx, func(d *dataset) error {
		for _, u := range d.users {
			if u.Username == username {
				u := u
				out = &u
				return nil
			}
		}
		return apperrors.NewResourceNotFoundError("User not found")
	})
	return out, err
}

func (r userRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if apperrors.Is(err, apperrors.ErrResourceNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r userRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	out := make(map[int64]*models.User, len(ids))
	err := r.v.read(ctx, func(d *dataset) error {
		for _, id := range ids {
			if u, ok := d.users[id]; ok {
				out[id] = &u
			}
		}
		return nil
	})
	return out, err
}

type mentorRepo struct{ v *view }

func (r mentorRepo) CreateProfile(ctx context.Context, profile *models.MentorProfile) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.users[profile.UserID]; !ok {
			return apperrors.NewValidationError("User does not exist")
		}
		if _, ok := d.mentors[profile.UserID]; ok {
			return apperrors.NewValidationError("Mentor profile already exists")
		}
		d.nextProfileID++
		profile.ID = d.nextProfileID
		p := *profile
		p.Universities = copyStrings(profile.Universities)
		p.Expertise = copyStrings(profile.Expertise)
		d.mentors[p.UserID] = p
		return nil
	})
}

func (r mentorRepo) GetProfileByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error) {
	var out *models.MentorProfile
	err := r.v.read(ctx, func(d *dataset) error {
		p, ok := d.mentors[userID]
		if !ok {
			return apperrors.NewResourceNotFoundError("Mentor not found")
		}
		out = &p
		return nil
	})
	return out, err
}

func (r mentorRepo) listings(d *dataset, keep func(*models.MentorProfile) bool) []models.MentorListing {
	out := make([]models.MentorListing, 0)
	for userID, p := range d.mentors {
		u, ok := d.users[userID]
		if !ok || u.Role != models.RoleMentor {
			continue
		}
		p := p
		if keep != nil && !keep(&p) {
			continue
		}
		out = append(out, models.MentorListing{User: &u, Profile: &p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.ID < out[j].User.ID })
	return out
}

func (r mentorRepo) List(ctx context.Context, filter models.MentorFilter) ([]models.MentorListing, error) {
	var out []models.MentorListing
	err := r.v.read(ctx, func(d *dataset) error {
		out = r.listings(d, filter.Matches)
		return nil
	})
	return out, err
}

func (r mentorRepo) Top(ctx context.Context, limit int) ([]models.MentorListing, error) {
	var out []models.MentorListing
	err := r.v.read(ctx, func(d *dataset) error {
		out = r.listings(d, nil)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Profile.Rating > out[j].Profile.Rating })
		if limit >= 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r mentorRepo) Facets(ctx context.Context) (*models.MentorFacets, error) {
	out := &models.MentorFacets{}
	err := r.v.read(ctx, func(d *dataset) error {
		unis := make(map[string]struct{})
		exps := make(map[string]struct{})
		for _, p := range d.mentors {
			for _, u := range p.Universities {
				unis[u] = struct{}{}
			}
			for _, e := range p.Expertise {
				exps[e] = struct{}{}
			}
		}
		out.Universities = sortedKeys(unis)
		out.Expertise = sortedKeys(exps)
		return nil
	})
	return out, err
}

type studentRepo struct{ v *view }

func (r studentRepo) CreateProfile(ctx context.Context, profile *models.StudentProfile) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.users[profile.UserID]; !ok {
			return apperrors.NewValidationError("User does not exist")
		}
		if _, ok := d.students[profile.UserID]; ok {
			return apperrors.NewValidationError("Student profile already exists")
		}
		d.nextProfileID++
		profile.ID = d.nextProfileID
		p := *profile
		p.TargetUniversities = copyStrings(profile.TargetUniversities)
		p.TestScores = copyScores(profile.TestScores)
		d.students[p.UserID] = p
		return nil
	})
}

func (r studentRepo) GetProfileByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	var out *models.StudentProfile
	err := r.v.read(ctx, func(d *dataset) error {
		p, ok := d.students[userID]
		if !ok {
			return apperrors.NewResourceNotFoundError("Student profile not found")
		}
		out = &p
		return nil
	})
	return out, err
}

type requestRepo struct{ v *view }

func (r requestRepo) Create(ctx context.Context, request *models.Request) error {
	return r.v.write(ctx, func(d *dataset) error {
		if request.Status.IsLive() && hasLive(d, request.StudentID, request.MentorID) {
			return apperrors.NewCodedValidationError(apperrors.CodeDuplicateRequest, "A request to this mentor is already pending or accepted")
		}
		d.nextRequestID++
		request.ID = d.nextRequestID
		request.CreatedAt = r.v.store.timestamp()
		d.requests[request.ID] = *request
		return nil
	})
}

func (r requestRepo) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	var out *models.Request
	err := r.v.read(ctx, func(d *dataset) error {
		req, ok := d.requests[id]
		if !ok {
			return apperrors.NewResourceNotFoundError("Request not found")
		}
		out = &req
		return nil
	})
	return out, err
}

// GetByIDForUpdate needs no extra locking: transactions are already serialized.
func (r requestRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Request, error) {
	return r.GetByID(ctx, id)
}

func (r requestRepo) UpdateStatusFromPending(ctx context.Context, id int64, status models.RequestStatus) (bool, error) {
	updated := false
	err := r.v.write(ctx, func(d *dataset) error {
		req, ok := d.requests[id]
		if !ok || req.Status != models.RequestStatusPending {
			return nil
		}
		req.Status = status
		d.requests[id] = req
		updated = true
		return nil
	})
	return updated, err
}

func (r requestRepo) ExistsLive(ctx context.Context, studentID, mentorID int64) (bool, error) {
	exists := false
	err := r.v.read(ctx, func(d *dataset) error {
		exists = hasLive(d, studentID, mentorID)
		return nil
	})
	return exists, err
}

func (r requestRepo) List(ctx context.Context, filter repositories.RequestFilter) ([]models.Request, error) {
	out := make([]models.Request, 0)
	err := r.v.read(ctx, func(d *dataset) error {
		for _, req := range d.requests {
			if filter.StudentID != 0 && req.StudentID != filter.StudentID {
				continue
			}
			if filter.MentorID != 0 && req.MentorID != filter.MentorID {
				continue
			}
			out = append(out, req)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func hasLive(d *dataset, studentID, mentorID int64) bool {
	for _, req := range d.requests {
		if req.StudentID == studentID && req.MentorID == mentorID && req.Status.IsLive() {
			return true
		}
	}
	return false
}

type messageRepo struct{ v *view }

func (r messageRepo) Create(ctx context.Context, message *models.Message) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.requests[message.RequestID]; !ok {
			return apperrors.NewValidationError("Request does not exist")
		}
		d.nextMessageID++
		message.ID = d.nextMessageID
		message.CreatedAt = r.v.store.timestamp()
		d.messages[message.ID] = *message
		return nil
	})
}

func (r messageRepo) ListByRequest(ctx context.Context, requestID, afterID int64) ([]models.Message, error) {
	out := make([]models.Message, 0)
	err := r.v.read(ctx, func(d *dataset) error {
		for _, m := range d.messages {
			if m.RequestID == requestID && m.ID > afterID {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func copyStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func copyScores(scores map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var (
	_ repositories.Store = (*Store)(nil)
	_ repositories.Store = (*view)(nil)
)
