package stubapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ehmtravel/backoffice/internal/entity"
)

type stubUser struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	FullName     string `gorm:"not null"`
	Email        string
	Branch       string
	Department   string
	Role         string
	Permissions  string
	PasswordHash string `gorm:"not null"`
	Active       bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (stubUser) TableName() string {
	return "stub_users"
}

type stubRecord struct {
	ID        string `gorm:"primaryKey"`
	Kind      string `gorm:"index;not null"`
	Payload   string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (stubRecord) TableName() string {
	return "stub_records"
}

type store struct {
	db *gorm.DB
}

func (s *store) list(kind entity.Kind) ([]entity.Record, error) {
	var rows []stubRecord
	err := s.db.Where("kind = ?", string(kind)).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]entity.Record, 0, len(rows))
	for _, row := range rows {
		var rec entity.Record
		if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
			return nil, fmt.Errorf("corrupt record %s: %w", row.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *store) get(kind entity.Kind, id string) (entity.Record, error) {
	var row stubRecord
	err := s.db.Where("kind = ? AND id = ?", string(kind), id).First(&row).Error
	if err != nil {
		return nil, err
	}
	var rec entity.Record
	if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
		return nil, fmt.Errorf("corrupt record %s: %w", row.ID, err)
	}
	return rec, nil
}

func (s *store) create(kind entity.Kind, rec entity.Record) (entity.Record, error) {
	rec = rec.Clone()
	rec["id"] = uuid.NewString()
	rec["createdAt"] = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	row := stubRecord{ID: rec.ID(), Kind: string(kind), Payload: string(payload)}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *store) update(kind entity.Kind, id string, patch entity.Record) (entity.Record, error) {
	existing, err := s.get(kind, id)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		existing[k] = v
	}
	payload, err := json.Marshal(existing)
	if err != nil {
		return nil, err
	}
	err = s.db.Model(&stubRecord{}).
		Where("kind = ? AND id = ?", string(kind), id).
		Updates(map[string]interface{}{
			"payload":    string(payload),
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *store) delete(kind entity.Kind, id string) error {
	result := s.db.Where("kind = ? AND id = ?", string(kind), id).Delete(&stubRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *store) userByUsername(username string) (*stubUser, error) {
	var u stubUser
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// SeedUser inserts a login account if it does not exist yet. Permissions is
// a comma-separated list.
func (srv *Server) SeedUser(username, fullName, password, role, permissions string) error {
	if _, err := srv.store.userByUsername(username); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := stubUser{
		Username:     username,
		FullName:     fullName,
		Role:         role,
		Permissions:  permissions,
		PasswordHash: string(hash),
		Active:       true,
	}
	return srv.db.Create(&u).Error
}

// SeedRecord inserts a sample record for development. The payload goes
// through the same path as an API create, so it gets an id and createdAt.
func (srv *Server) SeedRecord(kind entity.Kind, rec entity.Record) (entity.Record, error) {
	return srv.store.create(kind, rec)
}

func permissionList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
