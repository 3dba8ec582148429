package hackathon

import (
	"errors"

	"gorm.io/gorm"
)

// ParticipationRepository defines the interface for participation and
// reputation data operations. Multi-step writes run inside a single
// transaction so that rejected operations leave no partial state behind.
type ParticipationRepository interface {
	Create(p *Participation) error
	CreateCaptainWithTeam(p *Participation, teamName, teamDescription string) (*Team, error)
	GetByID(id uint) (*Participation, error)
	GetByUserAndHackathon(userID, hackathonID uint) (*Participation, error)
	ListByUser(userID uint) ([]Participation, error)
	ListByHackathon(hackathonID uint) ([]ParticipantInfo, error)
	UpdateRole(userID, hackathonID uint, role ParticipantRole) error
	Delete(userID, hackathonID uint) error
	UpdateReputation(participationID uint, newValue int, changedBy uint, reason string) (*ReputationHistory, error)
	GetReputationHistory(participationID uint) ([]ReputationHistory, error)
	IsExpert(userID, hackathonID uint) (bool, error)
}

type participationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository creates a new instance of ParticipationRepository
func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

// checkTeamCapacity re-checks the member count inside the caller's
// transaction so the capacity limit holds under concurrent joins.
func checkTeamCapacity(tx *gorm.DB, teamID uint) error {
	var team Team
	if err := tx.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	var h Hackathon
	if err := tx.First(&h, team.HackathonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHackathonNotFound
		}
		return err
	}
	if h.MaxTeamSize == nil {
		return nil
	}

	var count int64
	if err := tx.Model(&Participation{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
		return err
	}
	if count >= int64(*h.MaxTeamSize) {
		return ErrTeamFull
	}
	return nil
}

// Create inserts a participation. The duplicate-pair check and, when a team
// is referenced, the capacity check run in the same transaction as the insert.
func (r *participationRepository) Create(p *Participation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Participation{}).
			Where("user_id = ? AND hackathon_id = ?", p.UserID, p.HackathonID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateParticipation
		}

		if p.TeamID != nil {
			if err := checkTeamCapacity(tx, *p.TeamID); err != nil {
				return err
			}
		}

		return tx.Create(p).Error
	})
}

// CreateCaptainWithTeam creates the captain's team and participation as one
// unit. Either both rows exist afterwards or neither does.
func (r *participationRepository) CreateCaptainWithTeam(p *Participation, teamName, teamDescription string) (*Team, error) {
	team := &Team{
		HackathonID: p.HackathonID,
		Name:        teamName,
		CaptainID:   p.UserID,
		Description: teamDescription,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Participation{}).
			Where("user_id = ? AND hackathon_id = ?", p.UserID, p.HackathonID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateParticipation
		}

		if err := tx.Model(&Team{}).
			Where("hackathon_id = ? AND name = ?", p.HackathonID, teamName).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTeamName
		}

		if err := tx.Create(team).Error; err != nil {
			return err
		}
		p.TeamID = &team.ID
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *participationRepository) GetByID(id uint) (*Participation, error) {
	var p Participation
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *participationRepository) GetByUserAndHackathon(userID, hackathonID uint) (*Participation, error) {
	var p Participation
	err := r.db.Where("user_id = ? AND hackathon_id = ?", userID, hackathonID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *participationRepository) ListByUser(userID uint) ([]Participation, error) {
	var out []Participation
	err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&out).Error
	return out, err
}

func (r *participationRepository) ListByHackathon(hackathonID uint) ([]ParticipantInfo, error) {
	var out []ParticipantInfo
	err := r.db.Model(&Participation{}).
		Select("participations.id, participations.user_id, users.username, users.email, users.telegram_nick, participations.role, participations.team_id, participations.reputation, participations.created_at").
		Joins("JOIN users ON users.id = participations.user_id AND users.deleted_at IS NULL").
		Where("participations.hackathon_id = ?", hackathonID).
		Order("participations.created_at asc").
		Scan(&out).Error
	return out, err
}

func (r *participationRepository) UpdateRole(userID, hackathonID uint, role ParticipantRole) error {
	res := r.db.Model(&Participation{}).
		Where("user_id = ? AND hackathon_id = ?", userID, hackathonID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrParticipationNotFound
	}
	return nil
}

// deleteParticipationProjects removes the projects owned by a participation
// along with their review comments. The project tables are touched by id to
// keep this package free of a cyclic import on the project package.
func deleteParticipationProjects(tx *gorm.DB, participationID uint) error {
	err := tx.Exec(
		"DELETE FROM project_comments WHERE project_id IN (SELECT id FROM projects WHERE participation_id = ?)",
		participationID,
	).Error
	if err != nil {
		return err
	}
	return tx.Exec("DELETE FROM projects WHERE participation_id = ?", participationID).Error
}

// Delete removes a participation together with its reputation history and
// projects. If the user captains a team in the hackathon, the team goes with
// them: remaining members keep their participations but their team_id is
// nulled first.
func (r *participationRepository) Delete(userID, hackathonID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var p Participation
		err := tx.Where("user_id = ? AND hackathon_id = ?", userID, hackathonID).First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipationNotFound
			}
			return err
		}

		var team Team
		err = tx.Where("hackathon_id = ? AND captain_id = ?", hackathonID, userID).First(&team).Error
		switch {
		case err == nil:
			if err := tx.Model(&Participation{}).
				Where("team_id = ?", team.ID).
				Update("team_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Exec("UPDATE projects SET team_id = NULL WHERE team_id = ?", team.ID).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&Team{}, team.ID).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// not a captain, nothing to cascade
		default:
			return err
		}

		if err := deleteParticipationProjects(tx, p.ID); err != nil {
			return err
		}
		if err := tx.Unscoped().Where("participation_id = ?", p.ID).Delete(&ReputationHistory{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&Participation{}, p.ID).Error
	})
}

// UpdateReputation writes the new value and appends exactly one history row
// in a single transaction. The history row always records the value that was
// in effect immediately before this write.
func (r *participationRepository) UpdateReputation(participationID uint, newValue int, changedBy uint, reason string) (*ReputationHistory, error) {
	var entry *ReputationHistory
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var p Participation
		if err := tx.First(&p, participationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipationNotFound
			}
			return err
		}

		if err := tx.Model(&Participation{}).
			Where("id = ?", p.ID).
			Update("reputation", newValue).Error; err != nil {
			return err
		}

		entry = &ReputationHistory{
			ParticipationID: p.ID,
			OldReputation:   p.Reputation,
			NewReputation:   newValue,
			ChangedBy:       changedBy,
			Reason:          reason,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetReputationHistory returns the audit log newest-first.
func (r *participationRepository) GetReputationHistory(participationID uint) ([]ReputationHistory, error) {
	var out []ReputationHistory
	err := r.db.Where("participation_id = ?", participationID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// IsExpert reports whether the user holds an expert participation in the
// hackathon. Platform admins are handled by the caller.
func (r *participationRepository) IsExpert(userID, hackathonID uint) (bool, error) {
	var count int64
	err := r.db.Model(&Participation{}).
		Where("user_id = ? AND hackathon_id = ? AND role = ?", userID, hackathonID, RoleExpert).
		Count(&count).Error
	return count > 0, err
}
