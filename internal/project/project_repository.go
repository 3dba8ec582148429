package project

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrDuplicateArea     = errors.New("expert already covers this topic in the hackathon")
	ErrAreaNotFound      = errors.New("expert area not found")
	ErrProjectLocked     = errors.New("project has already been reviewed")
	ErrDuplicateProject  = errors.New("participation already has a project in this hackathon")
	ErrCommentNotAllowed = errors.New("comments require a submitted project")
)

// ProjectRepository defines the interface for project and review data operations
type ProjectRepository interface {
	CreateProject(p *Project) error
	GetProjectByID(id uint) (*Project, error)
	GetProjectByParticipation(participationID uint) (*Project, error)
	ListProjectsByHackathon(hackathonID uint) ([]Project, error)
	UpdateProject(p *Project) error
	DeleteProject(id uint) error

	AddExpertArea(area *ExpertArea) error
	GetExpertArea(id uint) (*ExpertArea, error)
	RemoveExpertArea(id uint) error
	ListExpertAreas(expertID, hackathonID uint) ([]ExpertArea, error)

	CreateComment(comment *ProjectComment) error
	ListComments(projectID uint) ([]ProjectComment, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// CreateProject inserts a project; the uniqueness check keeps one project
// per participation and runs in the same transaction as the insert.
func (r *projectRepository) CreateProject(p *Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Project{}).
			Where("participation_id = ?", p.ParticipationID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateProject
		}
		return tx.Create(p).Error
	})
}

func (r *projectRepository) GetProjectByID(id uint) (*Project, error) {
	var p Project
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) GetProjectByParticipation(participationID uint) (*Project, error) {
	var p Project
	err := r.db.Where("participation_id = ?", participationID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) ListProjectsByHackathon(hackathonID uint) ([]Project, error) {
	var projects []Project
	err := r.db.Where("hackathon_id = ?", hackathonID).Order("created_at asc").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) UpdateProject(p *Project) error {
	return r.db.Save(p).Error
}

func (r *projectRepository) DeleteProject(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&ProjectComment{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}

func (r *projectRepository) AddExpertArea(area *ExpertArea) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ExpertArea{}).
			Where("expert_id = ? AND hackathon_id = ? AND topic = ?", area.ExpertID, area.HackathonID, area.Topic).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateArea
		}
		return tx.Create(area).Error
	})
}

func (r *projectRepository) GetExpertArea(id uint) (*ExpertArea, error) {
	var area ExpertArea
	if err := r.db.First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &area, nil
}

func (r *projectRepository) RemoveExpertArea(id uint) error {
	res := r.db.Delete(&ExpertArea{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAreaNotFound
	}
	return nil
}

func (r *projectRepository) ListExpertAreas(expertID, hackathonID uint) ([]ExpertArea, error) {
	var areas []ExpertArea
	err := r.db.Where("expert_id = ? AND hackathon_id = ?", expertID, hackathonID).
		Order("topic asc").
		Find(&areas).Error
	return areas, err
}

// CreateComment appends a review comment and flips the project to reviewed
// in one transaction. Drafts cannot be commented on.
func (r *projectRepository) CreateComment(comment *ProjectComment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var p Project
		if err := tx.First(&p, comment.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		if p.Status == StatusDraft {
			return ErrCommentNotAllowed
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if p.Status != StatusReviewed {
			return tx.Model(&Project{}).Where("id = ?", p.ID).Update("status", StatusReviewed).Error
		}
		return nil
	})
}

func (r *projectRepository) ListComments(projectID uint) ([]ProjectComment, error) {
	var comments []ProjectComment
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at desc").
		Order("id desc").
		Find(&comments).Error
	return comments, err
}
