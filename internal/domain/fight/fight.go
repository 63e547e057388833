// Package fight computes fight outcomes from a hero, a villain and a
// location. Composition is pure: no I/O, no randomness, no clock — the id
// and date of a fight are stamped by the caller.
package fight

import (
	"github.com/okian/arena/internal/domain/model"
)

// Team labels used in composed outcomes.
const (
	TeamHeroes   = "heroes"
	TeamVillains = "villains"
)

// Outcome is the composed result of a fight. The JSON shape is part of the
// public API of the fights service.
type Outcome struct {
	ID            string       `json:"id"`
	FightDate     string       `json:"fight_date"`
	WinnerName    string       `json:"winner_name"`
	WinnerLevel   int64        `json:"winner_level"`
	WinnerPowers  string       `json:"winner_powers"`
	WinnerPicture string       `json:"winner_picture"`
	LoserName     string       `json:"loser_name"`
	LoserLevel    int64        `json:"loser_level"`
	LoserPowers   string       `json:"loser_powers"`
	LoserPicture  string       `json:"loser_picture"`
	WinnerTeam    string       `json:"winner_team"`
	LoserTeam     string       `json:"loser_team"`
	Hero          model.Record `json:"hero"`
	Villain       model.Record `json:"villain"`
	Location      model.Record `json:"location"`
}

// Compose decides a fight between hero and villain at location.
// The side with the strictly greater level wins; on a tie the villain wins.
// ID and FightDate are left zero for the caller to fill in.
func Compose(hero, villain, location model.Record) Outcome {
	heroWins := hero.Level() > villain.Level()

	winner, loser := villain, hero
	winnerTeam, loserTeam := TeamVillains, TeamHeroes
	if heroWins {
		winner, loser = hero, villain
		winnerTeam, loserTeam = TeamHeroes, TeamVillains
	}

	return Outcome{
		WinnerName:    winner.Name(),
		WinnerLevel:   winner.Level(),
		WinnerPowers:  winner.Powers(),
		WinnerPicture: winner.Picture(),
		LoserName:     loser.Name(),
		LoserLevel:    loser.Level(),
		LoserPowers:   loser.Powers(),
		LoserPicture:  loser.Picture(),
		WinnerTeam:    winnerTeam,
		LoserTeam:     loserTeam,
		Hero:          hero,
		Villain:       villain,
		Location:      location,
	}
}
