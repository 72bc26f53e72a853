/*
Package main provides a toy example use of paramconv's http stack.

POST /jobs binds the body into a Job
in whichever format the Content-Type names:

	curl -X POST localhost:3000/jobs -H 'Content-Type: application/json' -d '{"type":"backup","priority":2}'
	curl -X POST localhost:3000/jobs -H 'Content-Type: application/x-www-form-urlencoded' -d 'type=backup&priority=2'
	curl -X POST localhost:3000/jobs -H 'Content-Type: application/yaml' --data-binary $'type: backup\npriority: 2'

Set DESERIALIZATION_VERSION=1.0 to see Timeout dropped,
or DESERIALIZATION_GROUPS=Default to see Schedule dropped.

GET /jobs binds its query string into a JobFilter:

	curl 'localhost:3000/jobs?type=backup&limit=10'

With DATABASE_URL set, created jobs are saved, GET /jobs lists them,
and GET /jobs/{id} loads one back.
*/
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/http/resp"
	"github.com/xy-planning-network/paramconv/http/router"
	"github.com/xy-planning-network/paramconv/postgres"
	"github.com/xy-planning-network/paramconv/ranger"
	"github.com/xy-planning-network/paramconv/serializer"
)

// A Job is something to run on a schedule.
type Job struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Type     string `json:"type" validate:"required,oneof=backup report"`
	Priority int    `json:"priority" validate:"gte=1,lte=5"`
	Schedule string `json:"schedule" groups:"admin"`
	Timeout  int    `json:"timeout" since:"2.0"`

	tenant string `gorm:"-"`
}

// AfterDeserialize picks up the tenant the request was deserialized for.
func (j *Job) AfterDeserialize(dctx serializer.Context) error {
	if t, ok := dctx.Attribute("tenant"); ok {
		j.tenant = fmt.Sprint(t)
	}

	return nil
}

// A JobFilter narrows which Jobs to list.
type JobFilter struct {
	Type  string `json:"type" validate:"omitempty,oneof=backup report"`
	Limit int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// Handler shares the initialized Ranger across all example responses.
type Handler struct {
	*ranger.Ranger
	db *postgres.DB
}

// createJob responds with the bound Job, or with what about it is invalid.
func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	job, ok := req.Bound[*Job](r.Context(), "job")
	if !ok {
		h.Err(w, r, fmt.Errorf("no job bound"))
		return
	}

	if ve, _ := req.ValidationErrorsFromContext(r.Context()); len(ve) > 0 {
		h.Err(w, r, ve)
		return
	}

	if h.db != nil {
		if err := h.db.DB().Create(job).Error; err != nil {
			h.Err(w, r, fmt.Errorf("%w: %s", paramconv.ErrUnexpected, err))
			return
		}
	}

	data := map[string]any{"job": job, "tenant": job.tenant}
	if err := h.Json(w, r, resp.Code(http.StatusCreated), resp.Data(data)); err != nil {
		h.Err(w, r, err)
	}
}

// getJob responds with the Job loaded by its ID.
func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	job, _ := req.Bound[*Job](r.Context(), "job")
	if err := h.Json(w, r, resp.Data(map[string]any{"job": job})); err != nil {
		h.Err(w, r, err)
	}
}

// listJobs responds with the Jobs matching the bound JobFilter.
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	filter, _ := req.Bound[*JobFilter](r.Context(), "filter")
	if ve, _ := req.ValidationErrorsFromContext(r.Context()); len(ve) > 0 {
		h.Err(w, r, ve)
		return
	}

	jobs := make([]Job, 0)
	if h.db != nil {
		q := h.db.DB().Order("id")
		if filter.Type != "" {
			q = q.Where(&Job{Type: filter.Type})
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}

		if err := q.Find(&jobs).Error; err != nil {
			h.Err(w, r, fmt.Errorf("%w: %s", paramconv.ErrUnexpected, err))
			return
		}
	}

	if err := h.Json(w, r, resp.Data(map[string]any{"filter": filter, "jobs": jobs})); err != nil {
		h.Err(w, r, err)
	}
}

func main() {
	opts := []ranger.RangerOption{ranger.WithBinderOptions(
		req.WithType[Job]("job"),
		req.WithType[JobFilter]("filter"),
	)}

	var db *postgres.DB
	if paramconv.EnvVarOrString("DATABASE_URL", "") != "" {
		env := paramconv.EnvVarOrEnv("ENVIRONMENT", paramconv.Development)

		var err error
		if db, err = postgres.Connect(ranger.NewPostgresConfig(), env, nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := db.DB().AutoMigrate(new(Job)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		opts = append(opts, ranger.WithEntities(db, postgres.WithEntity[Job]("job")))
	}

	rng, err := ranger.New(opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	h := &Handler{Ranger: rng, db: db}
	if db != nil {
		rng.Handle(router.Route{
			Path:    "/jobs/{id}",
			Method:  http.MethodGet,
			Binding: &req.Configuration{Name: "job", Class: "job", Options: map[string]any{postgres.EntityKey: nil}},
			Handler: h.getJob,
		})
	}
	rng.Handle(router.Route{
		Path:    "/jobs",
		Method:  http.MethodGet,
		Binding: &req.Configuration{Name: "filter", Class: "filter", Options: map[string]any{req.QueryKey: true}},
		Handler: h.listJobs,
	})
	rng.Handle(router.Route{
		Path:   "/jobs",
		Method: http.MethodPost,
		Binding: &req.Configuration{
			Name:  "job",
			Class: "job",
			Options: map[string]any{
				req.DeserializationContextKey: map[string]any{"tenant": "example"},
				req.ValidatorKey:              map[string]any{"groups": []string{"Default"}},
			},
		},
		Handler: h.createJob,
	})

	if err := rng.Guide(); err != nil {
		rng.EmitLogger().Fatal(err.Error(), nil)
		os.Exit(1)
	}
}
