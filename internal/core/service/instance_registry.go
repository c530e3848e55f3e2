package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/pkg/metrics"
)

// Instance bundles the per-client session machinery: the controller that
// owns the state and the backend transport bound to the same session store.
type Instance struct {
	Controller *SessionController
	Backend    ports.Backend

	lastSeen time.Time
	release  func()
}

// InstanceFactory builds the unbooted machinery of a client instance.
type InstanceFactory func(clientID string) (*Instance, error)

// InstanceRegistry keeps one booted Instance per client ID.
type InstanceRegistry struct {
	factory InstanceFactory
	logger  zerolog.Logger
	now     func() time.Time

	mu        sync.Mutex
	instances map[string]*Instance
	group     singleflight.Group
}

func NewInstanceRegistry(factory InstanceFactory, logger zerolog.Logger) *InstanceRegistry {
	return &InstanceRegistry{
		factory:   factory,
		logger:    logger,
		now:       time.Now,
		instances: make(map[string]*Instance),
	}
}

// NewInstance is a convenience for factories: it wires the controller to the
// invalidation source so forced sign-outs reach it.
func NewInstance(ctrl *SessionController, backend ports.Backend, src ports.InvalidationSource) *Instance {
	inst := &Instance{Controller: ctrl, Backend: backend}
	if src != nil {
		inst.release = ctrl.Watch(src)
	}
	return inst
}

// Get returns the instance for clientID, creating it on first use. Creation
// starts boot reconciliation in the background; callers wait on
// Controller.Ready() before deciding access.
func (r *InstanceRegistry) Get(ctx context.Context, clientID string) (*Instance, error) {
	if clientID == "" {
		return nil, fmt.Errorf("instance registry: empty client id")
	}

	r.mu.Lock()
	if inst, ok := r.instances[clientID]; ok {
		inst.lastSeen = r.now()
		r.mu.Unlock()
		return inst, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(clientID, func() (any, error) {
		r.mu.Lock()
		if inst, ok := r.instances[clientID]; ok {
			r.mu.Unlock()
			return inst, nil
		}
		r.mu.Unlock()

		inst, err := r.factory(clientID)
		if err != nil {
			return nil, fmt.Errorf("build instance: %w", err)
		}
		inst.lastSeen = r.now()

		r.mu.Lock()
		r.instances[clientID] = inst
		metrics.ActiveInstances.Set(float64(len(r.instances)))
		r.mu.Unlock()

		// Boot outlives the request that triggered it.
		go inst.Controller.Boot(context.WithoutCancel(ctx))
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Instance), nil
}

// EvictIdle drops instances not seen for longer than ttl. Their durable
// session stays in the store and is re-verified on the next request.
func (r *InstanceRegistry) EvictIdle(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var evicted []*Instance
	for id, inst := range r.instances {
		if inst.lastSeen.Before(cutoff) {
			evicted = append(evicted, inst)
			delete(r.instances, id)
		}
	}
	metrics.ActiveInstances.Set(float64(len(r.instances)))
	r.mu.Unlock()

	for _, inst := range evicted {
		if inst.release != nil {
			inst.release()
		}
	}
	if len(evicted) > 0 {
		r.logger.Debug().Int("evicted", len(evicted)).Msg("idle client instances evicted")
	}
	return len(evicted)
}

// Len returns the number of live instances.
func (r *InstanceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}
