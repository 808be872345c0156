package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
)

// Bootstraps the database: schema, default settings and a starter week of
// locked surprises. Safe to run twice, everything is upsert or IF NOT EXISTS.

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
	`CREATE TABLE IF NOT EXISTS surprises (
		id              UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		title           TEXT NOT NULL,
		unlock_date     TIMESTAMPTZ NOT NULL,
		content_type    TEXT NOT NULL,
		content_payload JSONB NOT NULL DEFAULT '{}',
		media_urls      TEXT[] NOT NULL DEFAULT '{}',
		locked_hint     TEXT NOT NULL DEFAULT '',
		order_index     INT NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS memories (
		id          UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		date        TEXT NOT NULL DEFAULT '',
		photo_url   TEXT NOT NULL,
		caption     TEXT NOT NULL DEFAULT '',
		rotation    DOUBLE PRECISION NOT NULL DEFAULT 0,
		position    TEXT NOT NULL DEFAULT 'center',
		order_index INT NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_surprises_unlock_date ON surprises (unlock_date)`,
}

var defaultSettings = map[string]string{
	"her_nickname":   "my love",
	"your_signature": "yours, always",
	"site_password":  "iloveyou",
	"password_hint":  "the three words I say every night",
}

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_DSN"), "postgres connection string")
	start := flag.String("start", "", "first unlock day, YYYY-MM-DD (default: tomorrow)")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("dsn is required (flag -dsn or DATABASE_DSN)")
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("apply schema: %v", err)
		}
	}
	color.Green("schema applied")

	for key, value := range defaultSettings {
		_, err := db.Exec(
			`INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
			key, value,
		)
		if err != nil {
			log.Fatalf("seed setting %s: %v", key, err)
		}
	}
	color.Green("default settings in place")

	firstDay := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	if *start != "" {
		if firstDay, err = time.Parse("2006-01-02", *start); err != nil {
			log.Fatalf("bad -start value: %v", err)
		}
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM surprises`).Scan(&count); err != nil {
		log.Fatalf("count surprises: %v", err)
	}
	if count > 0 {
		color.Yellow("surprises already exist, skipping starter week")
		return
	}

	type starter struct {
		title       string
		contentType string
		lockedHint  string
		payload     map[string]any
	}

	week := []starter{
		{
			title:       "A letter to start the week",
			contentType: "letter",
			lockedHint:  "Words first",
			payload: map[string]any{
				"text":      "Day one.\n\nEdit me in the admin panel before she arrives.",
				"signature": defaultSettings["your_signature"],
			},
		},
		{
			title:       "Do you remember?",
			contentType: "quiz",
			lockedHint:  "A little test",
			payload: map[string]any{
				"question": "Where did we first meet?",
				"answer":   "replace me",
				"hint":     "Think back to the very beginning",
			},
		},
		{
			title:       "Songs that sound like us",
			contentType: "playlist",
			lockedHint:  "Press play",
			payload: map[string]any{
				"title": "Our week",
				"url":   "https://open.spotify.com/playlist/replace-me",
			},
		},
	}

	for i, s := range week {
		payload, err := json.Marshal(s.payload)
		if err != nil {
			log.Fatalf("marshal payload: %v", err)
		}
		_, err = db.Exec(
			`INSERT INTO surprises (title, unlock_date, content_type, content_payload, locked_hint, order_index)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			s.title, firstDay.AddDate(0, 0, i), s.contentType, payload, s.lockedHint, i+1,
		)
		if err != nil {
			log.Fatalf("seed surprise %q: %v", s.title, err)
		}
	}

	color.Green("starter week seeded, first unlock %s", firstDay.Format("2006-01-02"))
	color.Cyan("change the site password before going live")
}
