package contact

import (
	"log/slog"
	"strings"
)

// Store persists the whole collection. Load returns an empty slice when
// there is nothing stored; Save overwrites everything.
type Store interface {
	Load() ([]Contact, error)
	Save([]Contact) error
}

// Service runs every operation as a full load, mutate, save cycle against
// its Store. It keeps no state between calls.
type Service struct {
	store     Store
	validator Validator
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStrictEmail switches email validation to full-string matching.
func WithStrictEmail(strict bool) Option {
	return func(s *Service) { s.validator.StrictEmail = strict }
}

// WithLogger sets the logger used for operation events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validator returns the rules this service enforces, so callers can
// re-prompt before submitting.
func (s *Service) Validator() Validator { return s.validator }

// Add validates phone and email, appends the contact and persists.
func (s *Service) Add(name, phone, email, address string) (Contact, error) {
	if err := s.validator.Check(phone, email); err != nil {
		return Contact{}, err
	}
	contacts, err := s.store.Load()
	if err != nil {
		return Contact{}, err
	}

	c := Contact{Name: name, Phone: phone, Email: email, Address: address}
	if err := s.store.Save(append(contacts, c)); err != nil {
		return Contact{}, err
	}
	s.logger.Debug("contact added", "name", c.Name, "count", len(contacts)+1)
	return c, nil
}

// List returns the collection in stored order.
func (s *Service) List() ([]Contact, error) {
	return s.store.Load()
}

// Search returns every contact whose field contains query, ignoring case.
// Surrounding whitespace in query is ignored.
func (s *Service) Search(field, query string) ([]Contact, error) {
	f, err := ParseField(field)
	if err != nil {
		return nil, err
	}
	contacts, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	found := []Contact{}
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Value(f)), q) {
			found = append(found, c)
		}
	}
	return found, nil
}

// Edit updates the contact at the 1-based index. Blank values keep the
// current field; non-blank phone and email must validate.
func (s *Service) Edit(index int, name, phone, email, address string) (Contact, error) {
	contacts, err := s.store.Load()
	if err != nil {
		return Contact{}, err
	}
	if index < 1 || index > len(contacts) {
		return Contact{}, outOfRange(index, len(contacts))
	}

	c := contacts[index-1]
	if !blank(phone) {
		if !ValidatePhone(phone) {
			return Contact{}, &ValidationError{Field: FieldPhone, Value: phone}
		}
		c.Phone = phone
	}
	if !blank(email) {
		if !s.validator.ValidEmail(email) {
			return Contact{}, &ValidationError{Field: FieldEmail, Value: email}
		}
		c.Email = email
	}
	if !blank(name) {
		c.Name = name
	}
	if !blank(address) {
		c.Address = address
	}

	contacts[index-1] = c
	if err := s.store.Save(contacts); err != nil {
		return Contact{}, err
	}
	s.logger.Debug("contact updated", "index", index, "name", c.Name)
	return c, nil
}

// Delete removes the contact at the 1-based index. Later contacts move
// down one position.
func (s *Service) Delete(index int) (Contact, error) {
	contacts, err := s.store.Load()
	if err != nil {
		return Contact{}, err
	}
	if index < 1 || index > len(contacts) {
		return Contact{}, outOfRange(index, len(contacts))
	}

	removed := contacts[index-1]
	rest := append(contacts[:index-1:index-1], contacts[index:]...)
	if err := s.store.Save(rest); err != nil {
		return Contact{}, err
	}
	s.logger.Debug("contact deleted", "index", index, "name", removed.Name)
	return removed, nil
}

// Rejected is one record Import refused.
type Rejected struct {
	Contact Contact
	Err     error
}

// ImportResult summarizes an Import call.
type ImportResult struct {
	Added    []Contact
	Rejected []Rejected
}

// Import validates each record and appends the valid ones with a single
// save. Nothing is written when no record is valid.
func (s *Service) Import(records []Contact) (ImportResult, error) {
	var res ImportResult
	for _, c := range records {
		if err := s.validator.Check(c.Phone, c.Email); err != nil {
			res.Rejected = append(res.Rejected, Rejected{Contact: c, Err: err})
			continue
		}
		res.Added = append(res.Added, c)
	}
	if len(res.Added) == 0 {
		return res, nil
	}

	contacts, err := s.store.Load()
	if err != nil {
		return ImportResult{}, err
	}
	if err := s.store.Save(append(contacts, res.Added...)); err != nil {
		return ImportResult{}, err
	}
	s.logger.Info("contacts imported", "added", len(res.Added), "rejected", len(res.Rejected))
	return res, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
