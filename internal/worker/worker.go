// Package worker runs the periodic maintenance jobs of the tablet
// database, one ticker driven agent per configured job.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gorm.io/gorm"

	"hotels-sync/internal/dbconn"
)

type Worker struct {
	cfg Config

	dbConn *gorm.DB
	agents []*Agent
	wg     *sync.WaitGroup
}

func New(cfg Config) (*Worker, error) {
	// DB Conn Initialization
	db, err := dbconn.OpenAndMigrate(cfg.Db)
	if err != nil {
		return nil, err
	}

	return NewWithDB(cfg, db)
}

// NewWithDB builds the agents of every configured job on an already
// migrated database.
func NewWithDB(cfg Config, db *gorm.DB) (*Worker, error) {
	location := time.Local
	if cfg.Api.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Api.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %s: %w", cfg.Api.Timezone, err)
		}
		location = loc
	}

	// Base Initialization
	r := &Worker{
		cfg:    cfg,
		dbConn: db,
		agents: make([]*Agent, 0),
		wg:     &sync.WaitGroup{},
	}

	// Agent Initialization
	for id, v := range cfg.Jobs {
		job, ok := jobs[v.Job]
		if !ok {
			return nil, fmt.Errorf("unknown job %s", v.Job)
		}
		if v.Interval <= 0 {
			return nil, fmt.Errorf("job %s: interval must be positive", v.Job)
		}

		days := v.Days
		if days <= 0 {
			days = job.defaultDays
		}

		agent := &Agent{
			Id:       id,
			DbConn:   db,
			Job:      v.Job,
			Interval: v.Interval,
			Days:     days,
			Location: location,
			Debug:    cfg.Debug,
			now:      time.Now,
		}

		r.agents = append(r.agents, agent)
	}

	return r, nil
}

// RunOnce runs every configured job a single time, in order
func (s *Worker) RunOnce(ctx context.Context) error {
	var errs []error
	for _, agent := range s.agents {
		err := agent.runJob(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("agent#%d (%s): %w", agent.Id, agent.Job, err))
		}
	}

	return errors.Join(errs...)
}

func (s *Worker) Run() error {
	if len(s.agents) == 0 {
		return fmt.Errorf("no jobs configured")
	}

	var shutdownSigs []chan struct{}
	// Launch
	for _, agent := range s.agents {
		agentShutdownSig := make(chan struct{}, 1)
		shutdownSigs = append(shutdownSigs, agentShutdownSig)
		s.wg.Add(1)
		go agent.Run(s.wg, agentShutdownSig)
	}

	// Main thread to wait until we get a kill signal
	killSig := make(chan os.Signal, 1)
	signal.Notify(killSig, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	<-killSig

	log.Printf("Caught kill signal, shutting down")
	for _, sig := range shutdownSigs {
		close(sig)
	}
	s.wg.Wait()

	log.Printf("All threads exited")

	return nil
}
