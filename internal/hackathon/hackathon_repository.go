package hackathon

import (
	"errors"

	"gorm.io/gorm"
)

// HackathonRepository defines the interface for hackathon data operations
type HackathonRepository interface {
	Create(h *Hackathon) error
	GetByID(id uint) (*Hackathon, error)
	ListAll(statusFilter string) ([]HackathonWithCount, error)
	ListVisible(statusFilter string) ([]HackathonWithCount, error)
	Update(h *Hackathon) error
	Delete(id uint) error
	ParticipantCount(id uint) (int64, error)
}

type hackathonRepository struct {
	db *gorm.DB
}

// NewHackathonRepository creates a new instance of HackathonRepository
func NewHackathonRepository(db *gorm.DB) HackathonRepository {
	return &hackathonRepository{db: db}
}

func (r *hackathonRepository) Create(h *Hackathon) error {
	return r.db.Create(h).Error
}

func (r *hackathonRepository) GetByID(id uint) (*Hackathon, error) {
	var h Hackathon
	if err := r.db.First(&h, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

func (r *hackathonRepository) listWithCounts(statusFilter string) ([]HackathonWithCount, error) {
	var hackathons []Hackathon
	query := r.db.Model(&Hackathon{}).Order("start_date asc")
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}
	if err := query.Find(&hackathons).Error; err != nil {
		return nil, err
	}

	out := make([]HackathonWithCount, 0, len(hackathons))
	for i := range hackathons {
		count, err := r.ParticipantCount(hackathons[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, HackathonWithCount{Hackathon: hackathons[i], ParticipantCount: count})
	}
	return out, nil
}

// ListAll returns every hackathon with participant counts, for admins.
func (r *hackathonRepository) ListAll(statusFilter string) ([]HackathonWithCount, error) {
	return r.listWithCounts(statusFilter)
}

// ListVisible returns hackathons a regular user may see: published ones,
// plus unpublished ones that already reached their minimum participant count.
func (r *hackathonRepository) ListVisible(statusFilter string) ([]HackathonWithCount, error) {
	all, err := r.listWithCounts(statusFilter)
	if err != nil {
		return nil, err
	}
	visible := make([]HackathonWithCount, 0, len(all))
	for _, h := range all {
		if h.Published || h.ParticipantCount >= int64(h.MinParticipants) {
			visible = append(visible, h)
		}
	}
	return visible, nil
}

func (r *hackathonRepository) Update(h *Hackathon) error {
	return r.db.Save(h).Error
}

// Delete removes the hackathon and everything scoped to it, including
// projects, review comments and expert areas.
func (r *hackathonRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"DELETE FROM project_comments WHERE project_id IN (SELECT id FROM projects WHERE hackathon_id = ?)",
			id,
		).Error
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM projects WHERE hackathon_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM expert_areas WHERE hackathon_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().
			Where("participation_id IN (?)", tx.Model(&Participation{}).Select("id").Where("hackathon_id = ?", id)).
			Delete(&ReputationHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("hackathon_id = ?", id).Delete(&Participation{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("hackathon_id = ?", id).Delete(&Team{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&Hackathon{}, id).Error
	})
}

func (r *hackathonRepository) ParticipantCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&Participation{}).Where("hackathon_id = ?", id).Count(&count).Error
	return count, err
}
