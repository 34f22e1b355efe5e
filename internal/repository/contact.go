package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tajoco/contacts/internal/constants"
	"github.com/tajoco/contacts/internal/dto"
	"github.com/tajoco/contacts/internal/model"
	ctxutil "github.com/tajoco/contacts/pkg/context"
	"github.com/tajoco/contacts/pkg/logger"
	"gorm.io/gorm"
)

// ContactRepository persists contacts. Every query filters by the owning
// user id, rows of other users are unreachable through this type.
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// List returns the user's contacts with optional case-insensitive substring
// filters and limit/offset pagination.
func (r *ContactRepository) List(ctx context.Context, userID uint, filter dto.ContactFilter) ([]model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "List")

	limit := constants.ClampLimit(filter.Limit)
	offset := constants.ClampOffset(filter.Offset)

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.SecondName != "" {
		query = query.Where("secondname ILIKE ?", "%"+filter.SecondName+"%")
	}
	if filter.Email != "" {
		query = query.Where("email ILIKE ?", "%"+filter.Email+"%")
	}

	start := time.Now()
	var contacts []model.Contact
	if err := query.Limit(limit).Offset(offset).Order("id").Find(&contacts).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list contacts").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Contacts listed").
		Uint("user_id", userID).
		Int("limit", limit).
		Int("offset", offset).
		Int("returned_count", len(contacts)).
		Duration(time.Since(start)).
		Log()

	return contacts, nil
}

// GetByID returns the user's contact with the given id, (nil, nil) when the
// row is absent or owned by someone else.
func (r *ContactRepository) GetByID(ctx context.Context, userID, contactID uint) (*model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var contact model.Contact
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		First(&contact)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to get contact").
			Uint("user_id", userID).
			Uint("contact_id", contactID).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &contact, nil
}

// Create creates a new contact
func (r *ContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create contact").
			Uint("user_id", contact.UserID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Contact created").
		Uint("user_id", contact.UserID).
		Uint("contact_id", contact.ID).
		Log()

	return nil
}

// Update applies the supplied column values to the user's contact and
// returns the fresh row, (nil, nil) when the contact does not exist.
func (r *ContactRepository) Update(ctx context.Context, userID, contactID uint, updates map[string]interface{}) (*model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "Update")

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.Contact{}).
			Where("id = ? AND user_id = ?", contactID, userID).
			Updates(updates)

		if result.Error != nil {
			logger.ErrorWithContext(ctx, "Failed to update contact").
				Uint("user_id", userID).
				Uint("contact_id", contactID).
				Err(result.Error).
				Log()
			return nil, result.Error
		}

		if result.RowsAffected == 0 {
			return nil, nil
		}
	}

	return r.GetByID(ctx, userID, contactID)
}

// Delete removes the user's contact, reporting whether a row was deleted
func (r *ContactRepository) Delete(ctx context.Context, userID, contactID uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		Delete(&model.Contact{})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete contact").
			Uint("user_id", userID).
			Uint("contact_id", contactID).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Contact deleted").
			Uint("user_id", userID).
			Uint("contact_id", contactID).
			Log()
	}

	return result.RowsAffected > 0, nil
}

// UpcomingBirthdays returns the user's contacts whose birth month and day
// fall within the next seven days of now. Matching on month/day keys makes
// the December to January wraparound work for any stored birth year.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, userID uint, now time.Time) ([]model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpcomingBirthdays")

	keys := BirthdayWindow(now)

	var contacts []model.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND to_char(birth_date, 'MM-DD') IN ?", userID, keys).
		Order("to_char(birth_date, 'MM-DD')").
		Find(&contacts).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to query upcoming birthdays").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, err
	}

	return contacts, nil
}

// BirthdayWindow returns the MM-DD keys for today and the following seven
// calendar days, crossing the year boundary when needed.
func BirthdayWindow(now time.Time) []string {
	keys := make([]string, 0, 8)
	for i := 0; i <= 7; i++ {
		keys = append(keys, now.AddDate(0, 0, i).Format("01-02"))
	}
	return keys
}
