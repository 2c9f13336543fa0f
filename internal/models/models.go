package models

import (
	"database/sql"
	"time"
)

// Player represents a registered user in the system
type Player struct {
	ID               int            `db:"id" json:"id"`
	PhoneNumber      string         `db:"phone_number" json:"phone_number"`
	DisplayName      sql.NullString `db:"display_name" json:"display_name,omitempty"`
	PINHash          sql.NullString `db:"pin_hash" json:"-"`
	TotalHolesPlayed int            `db:"total_holes_played" json:"total_holes_played"`
	TotalHolesWon    int            `db:"total_holes_won" json:"total_holes_won"`
	IsActive         bool           `db:"is_active" json:"is_active"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	LastActive       sql.NullTime   `db:"last_active" json:"last_active,omitempty"`
}

// GolfSession represents a completed hole recorded for history
type GolfSession struct {
	ID            int            `db:"id" json:"id"`
	SessionKey    string         `db:"session_key" json:"session_key"`
	Status        string         `db:"status" json:"status"`
	WinnerAccount sql.NullString `db:"winner_account" json:"winner_account,omitempty"`
	PlayerCount   int            `db:"player_count" json:"player_count"`
	ShotCount     int            `db:"shot_count" json:"shot_count"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	StartedAt     sql.NullTime   `db:"started_at" json:"started_at,omitempty"`
	CompletedAt   sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}

// SessionShot represents a single recorded shot within a completed hole
type SessionShot struct {
	ID            int       `db:"id" json:"id"`
	SessionID     int       `db:"session_id" json:"session_id"`
	ShotNumber    int       `db:"shot_number" json:"shot_number"`
	PlayerID      string    `db:"player_id" json:"player_id"`
	Power         float64   `db:"power" json:"power"`
	Angle         float64   `db:"angle" json:"angle"`
	Spin          float64   `db:"spin" json:"spin"`
	WindSpeed     float64   `db:"wind_speed" json:"wind_speed"`
	WindDirection float64   `db:"wind_direction" json:"wind_direction"`
	Slope         float64   `db:"slope" json:"slope"`
	LandingX      float64   `db:"landing_x" json:"landing_x"`
	LandingY      float64   `db:"landing_y" json:"landing_y"`
	InHole        bool      `db:"in_hole" json:"in_hole"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// PlayerStats is the aggregate view returned by the stats endpoint
type PlayerStats struct {
	PhoneNumber      string  `db:"phone_number" json:"phone_number"`
	DisplayName      string  `db:"display_name" json:"display_name"`
	TotalHolesPlayed int     `db:"total_holes_played" json:"total_holes_played"`
	TotalHolesWon    int     `db:"total_holes_won" json:"total_holes_won"`
	WinRate          float64 `db:"-" json:"win_rate"`
}
