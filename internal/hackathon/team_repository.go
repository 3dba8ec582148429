package hackathon

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	GetTeamByID(id uint) (*Team, error)
	GetTeamByJoinCode(hackathonID, code uint) (*Team, error)
	GetTeamByCaptain(hackathonID, captainID uint) (*Team, error)
	CreateTeam(hackathonID, captainID uint, name, description string) (*Team, error)
	GetTeamMembers(teamID uint) ([]ParticipantInfo, error)
	MemberCount(teamID uint) (int64, error)
	AvailableTeams(hackathonID uint) ([]TeamWithCount, error)
	RenameTeam(teamID uint, newName string) error
	AddMember(userID, teamID uint) error
	RemoveMember(userID, hackathonID uint) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	if err := r.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

// GetTeamByJoinCode resolves a join code within a hackathon. The code is the
// team's numeric id; scoping it to the hackathon keeps codes from leaking
// teams of other events.
func (r *teamRepository) GetTeamByJoinCode(hackathonID, code uint) (*Team, error) {
	var team Team
	err := r.db.Where("id = ? AND hackathon_id = ?", code, hackathonID).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByCaptain(hackathonID, captainID uint) (*Team, error) {
	var team Team
	err := r.db.Where("hackathon_id = ? AND captain_id = ?", hackathonID, captainID).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

// CreateTeam creates a team for a captain who registered without one and
// links their participation to it, all in one transaction.
func (r *teamRepository) CreateTeam(hackathonID, captainID uint, name, description string) (*Team, error) {
	var team *Team
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var p Participation
		err := tx.Where("user_id = ? AND hackathon_id = ?", captainID, hackathonID).First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipating
			}
			return err
		}
		if p.TeamID != nil {
			return ErrAlreadyOnTeam
		}

		var count int64
		if err := tx.Model(&Team{}).
			Where("hackathon_id = ? AND name = ?", hackathonID, name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTeamName
		}

		team = &Team{
			HackathonID: hackathonID,
			Name:        name,
			CaptainID:   captainID,
			Description: description,
		}
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		return tx.Model(&Participation{}).Where("id = ?", p.ID).Update("team_id", team.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *teamRepository) GetTeamMembers(teamID uint) ([]ParticipantInfo, error) {
	var out []ParticipantInfo
	err := r.db.Model(&Participation{}).
		Select("participations.id, participations.user_id, users.username, users.email, users.telegram_nick, participations.role, participations.team_id, participations.reputation, participations.created_at").
		Joins("JOIN users ON users.id = participations.user_id AND users.deleted_at IS NULL").
		Where("participations.team_id = ?", teamID).
		Order("participations.created_at asc").
		Scan(&out).Error
	return out, err
}

func (r *teamRepository) MemberCount(teamID uint) (int64, error) {
	var count int64
	err := r.db.Model(&Participation{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// AvailableTeams returns teams that still have room, ordered by name. The
// name order makes auto-join deterministic; it is a fallback, not a
// balancing strategy.
func (r *teamRepository) AvailableTeams(hackathonID uint) ([]TeamWithCount, error) {
	var h Hackathon
	if err := r.db.First(&h, hackathonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, err
	}

	query := r.db.Model(&Team{}).
		Select("teams.id, teams.hackathon_id, teams.name, teams.captain_id, teams.description, teams.created_at, COUNT(participations.id) AS member_count").
		Joins("LEFT JOIN participations ON participations.team_id = teams.id AND participations.deleted_at IS NULL").
		Where("teams.hackathon_id = ?", hackathonID).
		Group("teams.id").
		Order("teams.name asc")

	if h.MaxTeamSize != nil {
		query = query.Having("COUNT(participations.id) < ?", *h.MaxTeamSize)
	}

	var out []TeamWithCount
	if err := query.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// RenameTeam changes a team's name; the uniqueness check excludes the team
// itself so renaming to the current name is a no-op, not a conflict.
func (r *teamRepository) RenameTeam(teamID uint, newName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var team Team
		if err := tx.First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&Team{}).
			Where("hackathon_id = ? AND name = ? AND id <> ?", team.HackathonID, newName, teamID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTeamName
		}

		return tx.Model(&Team{}).Where("id = ?", teamID).Update("name", newName).Error
	})
}

// AddMember links an existing participation to the team. The participation
// requirement and the capacity re-check run in the same transaction as the
// update, so the member count never exceeds the hackathon's limit even
// under concurrent joins.
func (r *teamRepository) AddMember(userID, teamID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var team Team
		if err := tx.First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}

		var p Participation
		err := tx.Where("user_id = ? AND hackathon_id = ?", userID, team.HackathonID).First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipating
			}
			return err
		}
		if p.Role != RoleTeamMember && p.Role != RoleCaptain {
			return ErrIneligibleRole
		}

		if p.TeamID != nil && *p.TeamID == teamID {
			return nil // already on this team
		}

		if err := checkTeamCapacity(tx, teamID); err != nil {
			return err
		}

		return tx.Model(&Participation{}).Where("id = ?", p.ID).Update("team_id", teamID).Error
	})
}

// RemoveMember detaches the user's participation from its team. The team is
// kept even when it ends up empty.
func (r *teamRepository) RemoveMember(userID, hackathonID uint) error {
	res := r.db.Model(&Participation{}).
		Where("user_id = ? AND hackathon_id = ?", userID, hackathonID).
		Update("team_id", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrParticipationNotFound
	}
	return nil
}
