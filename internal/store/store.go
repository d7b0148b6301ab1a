// Package store persists league data in Postgres: the standings snapshot,
// observed match results, the current rating table, and Monte Carlo runs.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/utakatalp/match-simulator/internal/engine"
	"github.com/utakatalp/match-simulator/internal/league"
)

// ErrRunNotFound reports a lookup for a simulation run that was never saved.
var ErrRunNotFound = errors.New("simulation run not found")

// Store wraps a Postgres connection and provides methods to persist and
// retrieve league data.
type Store struct {
	DB *sql.DB
}

// Open connects to Postgres using the given connection string and verifies
// the connection early.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Ping verifies the connection is still alive.
func (s *Store) Ping() error {
	return s.DB.Ping()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS teams (
		    id            SERIAL PRIMARY KEY,
		    name          TEXT NOT NULL UNIQUE,
		    played        INT  NOT NULL DEFAULT 0,
		    points        INT  NOT NULL DEFAULT 0,
		    win           INT  NOT NULL DEFAULT 0,
		    draw          INT  NOT NULL DEFAULT 0,
		    lose          INT  NOT NULL DEFAULT 0,
		    goals_for     INT  NOT NULL DEFAULT 0,
		    goals_against INT  NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
		    id         SERIAL PRIMARY KEY,
		    round      INT  NOT NULL,
		    home_team  TEXT NOT NULL REFERENCES teams(name),
		    away_team  TEXT NOT NULL REFERENCES teams(name),
		    home_goals INT  NOT NULL,
		    away_goals INT  NOT NULL,
		    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS ratings (
		    team       TEXT PRIMARY KEY REFERENCES teams(name),
		    elo        DOUBLE PRECISION NOT NULL,
		    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS sim_runs (
		    id         UUID PRIMARY KEY,
		    strategy   TEXT   NOT NULL,
		    runs       INT    NOT NULL,
		    seed       BIGINT NOT NULL,
		    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS sim_title_odds (
		    run_id      UUID NOT NULL REFERENCES sim_runs(id) ON DELETE CASCADE,
		    team        TEXT NOT NULL,
		    probability DOUBLE PRECISION NOT NULL,
		    PRIMARY KEY (run_id, team)
		);`,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// UpsertTeams writes a standings snapshot, inserting new teams and
// overwriting the counters of existing ones.
func (s *Store) UpsertTeams(teams []*league.Team) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert teams tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
	INSERT INTO teams (name, played, points, win, draw, lose, goals_for, goals_against)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (name) DO UPDATE SET
	    played        = EXCLUDED.played,
	    points        = EXCLUDED.points,
	    win           = EXCLUDED.win,
	    draw          = EXCLUDED.draw,
	    lose          = EXCLUDED.lose,
	    goals_for     = EXCLUDED.goals_for,
	    goals_against = EXCLUDED.goals_against
	`
	for _, t := range teams {
		if _, err := tx.Exec(q,
			t.Name, t.Played, t.Points, t.Win, t.Draw, t.Lose, t.GoalsFor, t.GoalsAgainst,
		); err != nil {
			return fmt.Errorf("upserting team %s: %w", t.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert teams tx: %w", err)
	}
	return nil
}

// GetTeams returns all stored team records in insertion order.
func (s *Store) GetTeams() ([]*league.Team, error) {
	const q = `
	SELECT id, name, played, points, win, draw, lose, goals_for, goals_against
	FROM teams
	ORDER BY id
	`
	return s.queryTeams(q)
}

// GetTable returns team records in table order: points, goal difference,
// goals for, then name.
func (s *Store) GetTable() ([]*league.Team, error) {
	const q = `
	SELECT id, name, played, points, win, draw, lose, goals_for, goals_against
	FROM teams
	ORDER BY
	    points DESC,
	    (goals_for - goals_against) DESC,
	    goals_for DESC,
	    name ASC
	`
	return s.queryTeams(q)
}

func (s *Store) queryTeams(q string) ([]*league.Team, error) {
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []*league.Team
	for rows.Next() {
		t := &league.Team{}
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Played,
			&t.Points,
			&t.Win,
			&t.Draw,
			&t.Lose,
			&t.GoalsFor,
			&t.GoalsAgainst,
		); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}
	return teams, nil
}

// ApplyResult records an observed match and folds it into both teams'
// standings counters in one transaction.
func (s *Store) ApplyResult(m *league.Match) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin apply result tx: %w", err)
	}
	defer tx.Rollback()

	const insert = `
	INSERT INTO matches (round, home_team, away_team, home_goals, away_goals)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`
	if err := tx.QueryRow(insert, m.Round, m.Home, m.Away, m.HomeGoals, m.AwayGoals).Scan(&m.ID); err != nil {
		return fmt.Errorf("saving match: %w", err)
	}

	homePts, homeW, homeD, homeL := 0, 0, 0, 0
	awayPts, awayW, awayD, awayL := 0, 0, 0, 0
	switch {
	case m.HomeGoals > m.AwayGoals:
		homePts, homeW = 3, 1
		awayL = 1
	case m.HomeGoals < m.AwayGoals:
		awayPts, awayW = 3, 1
		homeL = 1
	default:
		homePts, awayPts = 1, 1
		homeD, awayD = 1, 1
	}

	const update = `
	UPDATE teams SET
	    played        = played + 1,
	    points        = points + $1,
	    win           = win    + $2,
	    draw          = draw   + $3,
	    lose          = lose   + $4,
	    goals_for     = goals_for     + $5,
	    goals_against = goals_against + $6
	WHERE name = $7
	`
	if _, err := tx.Exec(update, homePts, homeW, homeD, homeL, m.HomeGoals, m.AwayGoals, m.Home); err != nil {
		return fmt.Errorf("updating home team %s: %w", m.Home, err)
	}
	if _, err := tx.Exec(update, awayPts, awayW, awayD, awayL, m.AwayGoals, m.HomeGoals, m.Away); err != nil {
		return fmt.Errorf("updating away team %s: %w", m.Away, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply result tx: %w", err)
	}
	m.Played = true
	return nil
}

// LoadMatches fetches all observed matches in playing order.
func (s *Store) LoadMatches() ([]league.Match, error) {
	const q = `
	SELECT id, round, home_team, away_team, home_goals, away_goals
	FROM matches
	ORDER BY round, id
	`
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []league.Match
	for rows.Next() {
		m := league.Match{Played: true}
		if err := rows.Scan(&m.ID, &m.Round, &m.Home, &m.Away, &m.HomeGoals, &m.AwayGoals); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match rows: %w", err)
	}
	return matches, nil
}

// SaveRatings upserts the given ratings. Teams absent from the argument keep
// their stored rating, so partial tables (a single result's nudge) are fine.
func (s *Store) SaveRatings(ratings engine.RatingTable) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin save ratings tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
	INSERT INTO ratings (team, elo, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (team) DO UPDATE SET elo = EXCLUDED.elo, updated_at = now()
	`
	for team, elo := range ratings {
		if _, err := tx.Exec(q, team, elo); err != nil {
			return fmt.Errorf("saving rating for %s: %w", team, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save ratings tx: %w", err)
	}
	return nil
}

// LoadRatings returns the stored rating table, which may be empty before the
// first rebuild.
func (s *Store) LoadRatings() (engine.RatingTable, error) {
	rows, err := s.DB.Query(`SELECT team, elo FROM ratings`)
	if err != nil {
		return nil, fmt.Errorf("querying ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(engine.RatingTable)
	for rows.Next() {
		var team string
		var elo float64
		if err := rows.Scan(&team, &elo); err != nil {
			return nil, fmt.Errorf("scanning rating row: %w", err)
		}
		ratings[team] = elo
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rating rows: %w", err)
	}
	return ratings, nil
}

// CreateRun registers a Monte Carlo run before its odds are written.
func (s *Store) CreateRun(id uuid.UUID, strategy string, runs int, seed uint64) error {
	const q = `INSERT INTO sim_runs (id, strategy, runs, seed) VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.Exec(q, id, strategy, runs, int64(seed)); err != nil {
		return fmt.Errorf("creating run %s: %w", id, err)
	}
	return nil
}

// SaveTitleOdds persists the title distribution of a run.
func (s *Store) SaveTitleOdds(id uuid.UUID, preds []league.Prediction) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin save odds tx: %w", err)
	}
	defer tx.Rollback()

	const q = `INSERT INTO sim_title_odds (run_id, team, probability) VALUES ($1, $2, $3)`
	for _, p := range preds {
		if _, err := tx.Exec(q, id, p.Team, p.Probability); err != nil {
			return fmt.Errorf("saving odds for %s: %w", p.Team, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save odds tx: %w", err)
	}
	return nil
}

// TitleOdds reads back the title distribution of a stored run.
func (s *Store) TitleOdds(id uuid.UUID) ([]league.Prediction, error) {
	var exists bool
	if err := s.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM sim_runs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking run %s: %w", id, err)
	}
	if !exists {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}

	const q = `
	SELECT team, probability
	FROM sim_title_odds
	WHERE run_id = $1
	ORDER BY probability DESC, team ASC
	`
	rows, err := s.DB.Query(q, id)
	if err != nil {
		return nil, fmt.Errorf("querying odds: %w", err)
	}
	defer rows.Close()

	var preds []league.Prediction
	for rows.Next() {
		var p league.Prediction
		if err := rows.Scan(&p.Team, &p.Probability); err != nil {
			return nil, fmt.Errorf("scanning odds row: %w", err)
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating odds rows: %w", err)
	}
	return preds, nil
}
