package models

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const GameTag = "game"

func init() {
	RegisterProductable(GameTag, ProductableKind{
		New:        func() Productable { return &Game{} },
		Find:       findGames,
		Attributes: []string{"mode", "release_date", "developer", "system_requirement_id"},
	})
}

// Game is the productable variant for video games.
type Game struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Mode                GameMode   `json:"mode" validate:"enum"`
	ReleaseDate         *time.Time `json:"release_date"`
	Developer           string     `gorm:"not null" json:"developer" validate:"present"`
	SystemRequirementID uint       `gorm:"index" json:"system_requirement_id"`
}

func (g *Game) TableName() string {
	return "games"
}

func (g *Game) Kind() string     { return GameTag }
func (g *Game) PrimaryKey() uint { return g.ID }

func (g *Game) Validate(tx *gorm.DB) FieldErrors {
	fields := Validate(g)

	exists := false
	if g.SystemRequirementID != 0 {
		var count int64
		if err := tx.Model(&SystemRequirement{}).Where("id = ?", g.SystemRequirementID).Count(&count).Error; err != nil {
			fields.Add("base", err.Error())
			return fields
		}
		exists = count > 0
	}
	if !exists {
		fields.Add("system_requirement", "must exist")
	}
	return fields
}

func (g *Game) Persist(tx *gorm.DB) error {
	return errors.Wrap(tx.Save(g).Error, "save game")
}

// Destroy removes the game together with its licenses.
func (g *Game) Destroy(tx *gorm.DB) error {
	if err := tx.Where("game_id = ?", g.ID).Delete(&License{}).Error; err != nil {
		return errors.Wrap(err, "delete game licenses")
	}
	return errors.Wrap(tx.Delete(g).Error, "delete game")
}

func (g *Game) PublicFields() map[string]interface{} {
	return map[string]interface{}{
		"mode":         g.Mode,
		"release_date": g.ReleaseDate,
		"developer":    g.Developer,
	}
}

func findGames(tx *gorm.DB, ids []uint) (map[uint]Productable, error) {
	var games []*Game
	if err := tx.Where("id IN ?", ids).Find(&games).Error; err != nil {
		return nil, errors.Wrap(err, "find games")
	}
	found := make(map[uint]Productable, len(games))
	for _, g := range games {
		found[g.ID] = g
	}
	return found, nil
}
