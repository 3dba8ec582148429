package hackathon

import "errors"

// Business-rule violations surfaced by the repositories. Controllers map
// them onto HTTP statuses; every violation is detected inside the
// transaction that would have applied the write, so a rejected operation
// leaves the store unchanged.
var (
	ErrHackathonNotFound      = errors.New("hackathon not found")
	ErrParticipationNotFound  = errors.New("participation not found")
	ErrDuplicateParticipation = errors.New("user already participates in this hackathon")
	ErrTeamNotFound           = errors.New("team not found")
	ErrDuplicateTeamName      = errors.New("a team with this name already exists in the hackathon")
	ErrTeamFull               = errors.New("team is full")
	ErrNotParticipating       = errors.New("user does not participate in this hackathon")
	ErrIneligibleRole         = errors.New("only captains and team members can be on a team")
	ErrAlreadyOnTeam          = errors.New("user is already on a team")
	ErrNoAvailableTeams       = errors.New("no teams are open for joining")
)
