package service

import (
	"context"
	"time"

	"github.com/tajoco/contacts/internal/dto"
	apperrors "github.com/tajoco/contacts/internal/errors"
	"github.com/tajoco/contacts/internal/model"
	ctxutil "github.com/tajoco/contacts/pkg/context"
	"github.com/tajoco/contacts/pkg/logger"
)

// ContactStore is the persistence surface for contacts, always scoped to
// an owning user. Lookups return (nil, nil) when the row is absent.
type ContactStore interface {
	List(ctx context.Context, userID uint, filter dto.ContactFilter) ([]model.Contact, error)
	GetByID(ctx context.Context, userID, contactID uint) (*model.Contact, error)
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, userID, contactID uint, fields map[string]interface{}) (*model.Contact, error)
	Delete(ctx context.Context, userID, contactID uint) (bool, error)
	UpcomingBirthdays(ctx context.Context, userID uint, now time.Time) ([]model.Contact, error)
}

// ContactService owns the contact CRUD and birthday lookups.
type ContactService struct {
	store ContactStore
}

func NewContactService(store ContactStore) *ContactService {
	return &ContactService{store: store}
}

func (s *ContactService) List(ctx context.Context, userID uint, filter dto.ContactFilter) ([]dto.ContactResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListContacts")

	contacts, err := s.store.List(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return contactResponses(contacts), nil
}

func (s *ContactService) Get(ctx context.Context, userID, contactID uint) (*dto.ContactResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetContact")

	contact, err := s.store.GetByID(ctx, userID, contactID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if contact == nil {
		return nil, apperrors.ErrContactNotFound
	}
	return contactResponse(contact), nil
}

func (s *ContactService) Create(ctx context.Context, userID uint, req *dto.CreateContactRequest) (*dto.ContactResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateContact")

	contact := &model.Contact{
		UserID:     userID,
		Name:       req.Name,
		SecondName: req.SecondName,
		Email:      req.Email,
		Phone:      req.Phone,
		BirthDate:  req.BirthDate.Time,
		Note:       req.Note,
	}

	if err := s.store.Create(ctx, contact); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Contact created").
		Uint("user_id", userID).
		Uint("contact_id", contact.ID).
		Log()

	return contactResponse(contact), nil
}

func (s *ContactService) Update(ctx context.Context, userID, contactID uint, req *dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateContact")

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.SecondName != nil {
		fields["secondname"] = *req.SecondName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.BirthDate != nil {
		fields["birth_date"] = req.BirthDate.Time
	}
	if req.Note != nil {
		fields["note"] = *req.Note
	}

	if len(fields) == 0 {
		return s.Get(ctx, userID, contactID)
	}

	contact, err := s.store.Update(ctx, userID, contactID, fields)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if contact == nil {
		return nil, apperrors.ErrContactNotFound
	}

	logger.InfoWithContext(ctx, "Contact updated").
		Uint("user_id", userID).
		Uint("contact_id", contactID).
		Int("fields", len(fields)).
		Log()

	return contactResponse(contact), nil
}

func (s *ContactService) Delete(ctx context.Context, userID, contactID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteContact")

	deleted, err := s.store.Delete(ctx, userID, contactID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !deleted {
		return apperrors.ErrContactNotFound
	}

	logger.InfoWithContext(ctx, "Contact deleted").
		Uint("user_id", userID).
		Uint("contact_id", contactID).
		Log()

	return nil
}

// UpcomingBirthdays lists contacts whose birthday falls within the next
// seven days, today included.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID uint) ([]dto.ContactResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpcomingBirthdays")

	contacts, err := s.store.UpcomingBirthdays(ctx, userID, time.Now())
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return contactResponses(contacts), nil
}

func contactResponse(c *model.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:         c.ID,
		Name:       c.Name,
		SecondName: c.SecondName,
		Email:      c.Email,
		Phone:      c.Phone,
		BirthDate:  dto.Date{Time: c.BirthDate},
		Note:       c.Note,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func contactResponses(contacts []model.Contact) []dto.ContactResponse {
	out := make([]dto.ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, *contactResponse(&contacts[i]))
	}
	return out
}
