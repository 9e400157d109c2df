package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"
)

type Agent struct {
	Id       int
	DbConn   *gorm.DB
	Job      string
	Interval int
	Days     int
	Location *time.Location
	Debug    bool

	now         func() time.Time
	intvlTicker *time.Ticker
	killSig     chan struct{}
	wg          *sync.WaitGroup
}

func (s *Agent) runJob(ctx context.Context) error {
	job, ok := jobs[s.Job]
	if !ok {
		log.Printf("agent#%d: unknown job %s", s.Id, s.Job)
		return nil
	}

	start := time.Now()
	if s.Debug {
		log.Printf("agent#%d: start job %s (days %d)", s.Id, s.Job, s.Days)
	}

	err := job.run(ctx, s)
	if err != nil {
		log.Printf("agent#%d: job %s failed (%v)", s.Id, s.Job, err)
		return err
	}

	if s.Debug {
		log.Printf("agent#%d: job %s done in %s", s.Id, s.Job, time.Since(start))
	}
	return nil
}

func (s *Agent) finish() {
	if s.intvlTicker != nil {
		s.intvlTicker.Stop()
	}

	if s.wg != nil {
		s.wg.Done()
	}

	log.Printf("agent#%d: finished process thread", s.Id)
}

// Run executes the job immediately and then every Interval seconds until
// killSig is closed. The caller adds the agent to wg.
func (s *Agent) Run(wg *sync.WaitGroup, killSig chan struct{}) error {
	log.Printf("agent#%d: start agent thread (job %s, interval %d)", s.Id, s.Job, s.Interval)

	// init
	s.intvlTicker = time.NewTicker(time.Duration(s.Interval) * time.Second)
	s.killSig = killSig
	s.wg = wg

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-killSig
		cancel()
	}()

	// start
	defer s.finish()

	s.runJob(ctx)
	for {
		select {
		case <-killSig:
			return nil
		case <-s.intvlTicker.C:
			s.runJob(ctx)
		}
	}
}
