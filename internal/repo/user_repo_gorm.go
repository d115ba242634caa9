package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"artmarket/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(q); s != "" {
		like := containsPattern(s)
		tx = tx.Where("LOWER(email) LIKE ? ESCAPE '!' OR LOWER(name) LIKE ? ESCAPE '!'", like, like)
	}
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, limit)
	if total == 0 || int64(offset) >= total {
		return users, total, nil
	}
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) error {
	var u domain.User
	var cols []string
	if p.Name != nil {
		u.Name, cols = *p.Name, append(cols, "Name")
	}
	if p.Bio != nil {
		u.Bio, cols = *p.Bio, append(cols, "Bio")
	}
	if p.ContactInfo != nil {
		u.ContactInfo, cols = p.ContactInfo, append(cols, "ContactInfo")
	}
	if len(cols) == 0 {
		return nil
	}
	// struct update with an explicit column list: empty strings are written,
	// and contact_info goes through the json serializer
	return checkAffected(r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).Select(cols).Updates(&u))
}

func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return checkAffected(r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).Update("is_active", active))
}

func (r *UserRepo) SetResetToken(ctx context.Context, id, digest string, expire time.Time) error {
	return checkAffected(r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"reset_password_token": digest, "reset_password_expire": expire}))
}

func (r *UserRepo) ClearResetToken(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"reset_password_token": nil, "reset_password_expire": nil}).Error
}

func (r *UserRepo) FindByResetToken(ctx context.Context, digest string, now time.Time) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", digest, now).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) ConsumeResetToken(ctx context.Context, id, digest, passwordHash string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND reset_password_token = ? AND reset_password_expire > ?", id, digest, now).
		Updates(map[string]any{
			"password_hash":         passwordHash,
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepo) Summaries(ctx context.Context, ids []string, withContact bool) (map[string]*domain.ArtistSummary, error) {
	out := make(map[string]*domain.ArtistSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cols := []string{"id", "name", "email", "profile_image"}
	if withContact {
		cols = append(cols, "contact_info")
	}
	var rows []domain.ArtistSummary
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select(cols).Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func checkAffected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
