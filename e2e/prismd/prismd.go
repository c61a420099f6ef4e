// Package prismd is a minimal in-memory stand-in for Prism Central,
// used by the end-to-end tests and the local e2e server binary.
package prismd

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"imagesync/internal/prism"
)

// Options seeds the fake with pre-existing entities
type Options struct {
	Clusters []string
	// VMs maps a VM name to its disk uuids
	VMs map[string][]string
}

// Server holds the in-memory entity state and serves the v3 endpoints
type Server struct {
	mu       sync.Mutex
	router   chi.Router
	images   map[string]*prism.ImageSpec
	order    []string
	vms      []prism.Entity
	clusters []prism.Entity
	tasks    map[string]*prism.Task
}

// New returns a server implementing the v3 endpoints the reconciler
// consumes
func New(opts Options) *Server {
	s := &Server{
		images: make(map[string]*prism.ImageSpec),
		tasks:  make(map[string]*prism.Task),
	}

	for _, name := range opts.Clusters {
		s.clusters = append(s.clusters, prism.Entity{
			Status:   prism.EntityStatus{Name: name},
			Metadata: prism.Metadata{Kind: "cluster", UUID: uuid.NewString(), Name: name},
		})
	}
	for name, disks := range opts.VMs {
		refs := make([]prism.DiskRef, 0, len(disks))
		for _, d := range disks {
			refs = append(refs, prism.DiskRef{UUID: d})
		}
		s.vms = append(s.vms, prism.Entity{
			Status:   prism.EntityStatus{Name: name, Resources: prism.EntityResources{DiskList: refs}},
			Metadata: prism.Metadata{Kind: "vm", UUID: uuid.NewString(), Name: name},
		})
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/nutanix/v3", func(r chi.Router) {
		r.Post("/images/list", s.listImages)
		r.Post("/vms/list", s.listVMs)
		r.Post("/clusters/list", s.listClusters)
		r.Post("/images", s.createImage)
		r.Get("/images/{uuid}", s.getImage)
		r.Put("/images/{uuid}", s.updateImage)
		r.Delete("/images/{uuid}", s.deleteImage)
		r.Get("/tasks/{uuid}", s.getTask)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SeedImage adds a pre-existing image directly, bypassing the task flow
func (s *Server) SeedImage(name, imageType, description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.images[id] = &prism.ImageSpec{
		Spec: &prism.ImageDefinition{
			Name:        name,
			Resources:   prism.ImageResources{ImageType: imageType},
			Description: description,
		},
		APIVersion: "3.1.0",
		Metadata:   prism.Metadata{Kind: "image", UUID: id, Name: name},
		Status:     json.RawMessage(`{"state":"COMPLETE"}`),
	}
	s.order = append(s.order, id)
	return id
}

func (s *Server) listImages(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entities := make([]prism.Entity, 0, len(s.order))
	for _, id := range s.order {
		img := s.images[id]
		entities = append(entities, prism.Entity{
			Status: prism.EntityStatus{
				Name:        img.Spec.Name,
				Description: img.Spec.Description,
				Resources:   prism.EntityResources{ImageType: img.Spec.Resources.ImageType},
			},
			Metadata: img.Metadata,
		})
	}

	writeJSON(w, http.StatusOK, prism.EntityList{Entities: entities})
}

func (s *Server) listVMs(w http.ResponseWriter, r *http.Request) {
	var page prism.ListRequest
	_ = json.NewDecoder(r.Body).Decode(&page)

	s.mu.Lock()
	defer s.mu.Unlock()

	entities := s.vms
	if name, ok := strings.CutPrefix(page.Filter, "vm_name=="); ok {
		filtered := make([]prism.Entity, 0)
		for _, e := range entities {
			if e.Status.Name == name {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	writeJSON(w, http.StatusOK, prism.EntityList{Entities: entities})
}

func (s *Server) listClusters(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, prism.EntityList{Entities: s.clusters})
}

func (s *Server) createImage(w http.ResponseWriter, r *http.Request) {
	var spec prism.ImageSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil || spec.Spec == nil {
		writeError(w, http.StatusBadRequest, "invalid image spec")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	spec.Metadata.UUID = id
	spec.Status = json.RawMessage(`{"state":"COMPLETE"}`)
	s.images[id] = &spec
	s.order = append(s.order, id)

	writeJSON(w, http.StatusAccepted, s.mutationResponse(id))
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.images[chi.URLParam(r, "uuid")]
	if !ok {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	writeJSON(w, http.StatusOK, img)
}

func (s *Server) updateImage(w http.ResponseWriter, r *http.Request) {
	var spec prism.ImageSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil || spec.Spec == nil {
		writeError(w, http.StatusBadRequest, "invalid image spec")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "uuid")
	if _, ok := s.images[id]; !ok {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	spec.Metadata.UUID = id
	spec.Status = json.RawMessage(`{"state":"COMPLETE"}`)
	s.images[id] = &spec

	writeJSON(w, http.StatusAccepted, s.mutationResponse(id))
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "uuid")
	if _, ok := s.images[id]; !ok {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	delete(s.images, id)
	remaining := make([]string, 0, len(s.order))
	for _, o := range s.order {
		if o != id {
			remaining = append(remaining, o)
		}
	}
	s.order = remaining

	writeJSON(w, http.StatusAccepted, s.mutationResponse(id))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[chi.URLParam(r, "uuid")]
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// mutationResponse registers an immediately-succeeding task. The caller
// must hold the lock.
func (s *Server) mutationResponse(imageUUID string) map[string]interface{} {
	taskUUID := uuid.NewString()
	s.tasks[taskUUID] = &prism.Task{UUID: taskUUID, Status: prism.TaskSucceeded}

	return map[string]interface{}{
		"status": map[string]interface{}{
			"execution_context": map[string]interface{}{
				"task_uuid": taskUUID,
			},
		},
		"metadata": prism.Metadata{Kind: "image", UUID: imageUUID},
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"message_list": []map[string]string{{"message": message}},
	})
}
