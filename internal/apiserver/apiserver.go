package apiserver

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/pquerna/otp"
	"gorm.io/gorm"

	"hotels-sync/internal/dbconn"
	"hotels-sync/internal/tablets"
	"hotels-sync/internal/tabletsync"
)

type ApiServer struct {
	cfg      Config
	dbConn   *gorm.DB
	location *time.Location
	auth     *tablets.Authenticator
	sync     *tabletsync.Service
	now      func() time.Time
}

/* Main */
func New(cfg Config) (*ApiServer, error) {
	// DB Conn Initialization
	db, err := dbconn.OpenAndMigrate(cfg.Db)
	if err != nil {
		return nil, err
	}

	return NewWithDB(cfg, db)
}

// NewWithDB builds a server on an already migrated database
func NewWithDB(cfg Config, db *gorm.DB) (*ApiServer, error) {
	location := time.Local
	if cfg.Api.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Api.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %s: %w", cfg.Api.Timezone, err)
		}
		location = loc
	}

	digits := otp.DigitsSix
	if cfg.Api.OtpDigits != 0 {
		d, err := tablets.Digits(cfg.Api.OtpDigits)
		if err != nil {
			return nil, err
		}
		digits = d
	}

	// Base Initialization
	s := &ApiServer{
		cfg:      cfg,
		dbConn:   db,
		location: location,
		auth:     &tablets.Authenticator{DB: db, Digits: digits},
		sync:     tabletsync.New(db, location),
		now:      time.Now,
	}
	s.sync.ExtrasBuildingID = cfg.Extras.BuildingID
	s.sync.ExtrasServiceID = cfg.Extras.ServiceID

	return s, nil
}

// Handler returns the complete router, middlewares included
func (s *ApiServer) Handler() http.Handler {
	timeout := s.cfg.Http.Timeout
	if timeout <= 0 {
		timeout = 60
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.Http.Debug {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(time.Duration(timeout) * time.Second))

	if s.cfg.Http.BasicAuth {
		userdb := make(map[string]string)
		for _, v := range s.cfg.Http.Users {
			userdb[v.User] = v.Password
		}
		r.Use(middleware.BasicAuth(s.cfg.Http.ServerName, userdb))
	}

	// legacy clients use the versioned prefix
	r.Mount("/api/v1", s.apiRouter())
	r.Mount("/", s.apiRouter())

	return r
}

func (s *ApiServer) apiRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/status", s.apiStatus)
	r.Get("/versions", s.apiVersions)
	r.Get("/dates", s.apiDates)
	r.Get("/get/{tablet_id}/{password}", s.apiGet)

	r.Route("/put", func(r chi.Router) {
		activity := "/activity/{tablet_id}/{password}/{contract_id}/{room_id}/{service_id}/{service_qty}/{datetime}"
		r.Put(activity, s.apiPutActivity)
		r.Put(activity+"/*", s.apiPutActivity)

		extra := "/extra/{tablet_id}/{password}/{contract_id}/{room_number}/{service_qty}/{datetime}"
		r.Put(extra, s.apiPutExtra)
		r.Put(extra+"/*", s.apiPutExtra)

		timestamp := "/timestamp/{tablet_id}/{password}/{contract_id}/{direction}/{datetime}"
		r.Put(timestamp, s.apiPutTimestamp)
		r.Put(timestamp+"/*", s.apiPutTimestamp)
	})

	return r
}

func (s *ApiServer) Run() error {
	log.Printf("apiserver: listening on %s", s.cfg.Http.Listen)

	// Start HTTP Handler
	err := http.ListenAndServe(s.cfg.Http.Listen, s.Handler())
	if err != nil {
		log.Printf("apiserver: http server stopped (%v)", err)
		return err
	}

	return nil
}
