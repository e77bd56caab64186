package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/api"
	"github.com/findhope/findhope-api/api/scheduler"
	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
	"github.com/findhope/findhope-api/email"
	"github.com/findhope/findhope-api/models"
	"github.com/findhope/findhope-api/notify"
	"github.com/findhope/findhope-api/vision"
)

// requestTimeout bounds every API request end to end.
const requestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	DB        databases.CollectionHelper
	Config    config.Config
	dbHelper  databases.DatabaseHelper
	scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewAdminDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	notifier := &notify.Service{
		SubDB:      databases.NewSubscriberDatabase(a.dbHelper),
		ADB:        databases.NewAdminDatabase(a.dbHelper),
		VDB:        databases.NewVolunteerDatabase(a.dbHelper),
		UDB:        databases.NewUserDatabase(a.dbHelper),
		Dispatcher: &email.Dispatcher{Sender: email.NewSendGridSender()},
	}
	comparer := vision.New()

	c := Case{DB: databases.NewCaseDatabase(a.dbHelper), Notify: notifier}
	cm := CaseMatch{DB: databases.NewCaseDatabase(a.dbHelper)}
	pm := PhotoMatch{DB: databases.NewCaseDatabase(a.dbHelper), Comparer: comparer}
	cctv := CCTV{
		CDB:      databases.NewCaseDatabase(a.dbHelper),
		SDB:      databases.NewSightingDatabase(a.dbHelper),
		VDB:      databases.NewVolunteerDatabase(a.dbHelper),
		Comparer: comparer,
		Alerter:  LogAlerter{},
	}
	v := Volunteer{DB: databases.NewVolunteerDatabase(a.dbHelper), CDB: databases.NewCaseDatabase(a.dbHelper), Alerter: LogAlerter{}}
	n := Notify{CDB: databases.NewCaseDatabase(a.dbHelper), Service: notifier}
	sub := Subscriber{DB: databases.NewSubscriberDatabase(a.dbHelper)}
	sight := Sighting{DB: databases.NewSightingDatabase(a.dbHelper)}
	msg := Message{DB: databases.NewMessageDatabase(a.dbHelper)}
	admin := Admin{DB: databases.NewAdminDatabase(a.dbHelper), CDB: databases.NewCaseDatabase(a.dbHelper), Notify: notifier}
	reward := Reward{DB: databases.NewCaseDatabase(a.dbHelper), Config: a.Config}
	cloudinaryHandler := CloudinaryHandler{}
	metricsHandler := Metrics{}

	r.Use(api.MetricsMiddleware)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.CORS)
	apiCreate.Use(api.TimeoutMiddleware(requestTimeout))

	apiCreate.Handle("/auth/token", http.HandlerFunc(m.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", http.HandlerFunc(api.RevokeToken)).Methods("DELETE")

	// function-style endpoints consumed by the web client
	apiCreate.Handle("/functions/check-case-matches", http.HandlerFunc(cm.CheckCaseMatchesHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/functions/match-photo", http.HandlerFunc(pm.MatchPhotoHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/functions/process-cctv-image", http.HandlerFunc(cctv.ProcessCCTVImageHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/functions/notify-volunteers", http.HandlerFunc(v.NotifyVolunteersHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/functions/notify-case-update", http.HandlerFunc(n.NotifyCaseUpdateHandler)).Methods("POST", "OPTIONS")

	apiCreate.Handle("/cases", http.HandlerFunc(c.CaseHandler)).Methods("GET")
	apiCreate.Handle("/cases", http.HandlerFunc(c.CreateCaseHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/case/{case_id}", http.HandlerFunc(c.CaseByIDHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}", api.Middleware(http.HandlerFunc(c.UpdateCaseHandler))).Methods("PUT")
	apiCreate.Handle("/case/{case_id}", api.Middleware(http.HandlerFunc(c.DeleteCaseHandler))).Methods("DELETE")
	apiCreate.Handle("/case/{case_id}/status", api.Middleware(http.HandlerFunc(c.UpdateCaseStatusHandler))).Methods("PUT")
	apiCreate.Handle("/case/{case_id}/subscribe", http.HandlerFunc(sub.SubscribeHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/case/{case_id}/sightings", http.HandlerFunc(sight.SightingsByCaseHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}/messages", http.HandlerFunc(msg.MessagesByCaseHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}/messages", http.HandlerFunc(msg.CreateMessageHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/case/{case_id}/reward-checkout", http.HandlerFunc(reward.CreateRewardCheckoutHandler)).Methods("POST", "OPTIONS")

	apiCreate.Handle("/volunteers", http.HandlerFunc(v.VolunteerHandler)).Methods("GET")
	apiCreate.Handle("/volunteers", http.HandlerFunc(v.CreateVolunteerHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/volunteer/{volunteer_id}", api.Middleware(http.HandlerFunc(v.UpdateVolunteerHandler))).Methods("PUT")

	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.LoginHandler)).Methods("POST", "OPTIONS")
	apiCreate.Handle("/admin/stats", api.Middleware(http.HandlerFunc(admin.StatsHandler))).Methods("GET")
	apiCreate.Handle("/admin/case/{case_id}/close", api.Middleware(http.HandlerFunc(admin.CloseCaseHandler))).Methods("PUT")
	apiCreate.Handle("/admin/metrics", api.Middleware(http.HandlerFunc(metricsHandler.MetricsSummaryHandler))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	apiCreate.Handle("/success", http.HandlerFunc(reward.HandleSuccessRedirect)).Methods("GET")
	apiCreate.Handle("/cancel", http.HandlerFunc(reward.HandleCancelRedirect)).Methods("GET")

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("findhope-api has connected to the database")

	// initialize stripe
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		return fmt.Errorf("stripe secret key is not set")
	}
	stripe.Key = stripeKey

	// initialize api router
	a.initializeRoutes()

	// start the nightly cold case sweep
	a.scheduler = scheduler.NewScheduler(
		databases.NewCaseDatabase(a.dbHelper),
		&notify.Service{
			SubDB:      databases.NewSubscriberDatabase(a.dbHelper),
			ADB:        databases.NewAdminDatabase(a.dbHelper),
			VDB:        databases.NewVolunteerDatabase(a.dbHelper),
			UDB:        databases.NewUserDatabase(a.dbHelper),
			Dispatcher: &email.Dispatcher{Sender: email.NewSendGridSender()},
		},
	)
	a.scheduler.Start()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
