package event

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/crmcore/backend/internal/domain/shared"
)

// EventUpgrader rewrites an event payload from one schema version to the
// next. Upgraders are strictly sequential: each one covers exactly the
// v -> v+1 step, and chains of them bridge larger gaps.
type EventUpgrader interface {
	SourceVersion() int
	TargetVersion() int
	// Upgrade takes the raw JSON payload at SourceVersion and returns it
	// rewritten for TargetVersion.
	Upgrade(payload []byte) ([]byte, error)
}

// VersionedEventConfig describes every schema version of a single event type:
// the latest version, a prototype per version, and the upgrader chain.
type VersionedEventConfig struct {
	EventType      string
	CurrentVersion int
	Upgraders      map[int]EventUpgrader
	Versions       map[int]shared.DomainEvent
}

// VersionRegistry holds the versioning configs for all event types and
// applies upgrader chains to stored payloads.
type VersionRegistry struct {
	mu      sync.RWMutex
	configs map[string]*VersionedEventConfig
}

func NewVersionRegistry() *VersionRegistry {
	return &VersionRegistry{
		configs: make(map[string]*VersionedEventConfig),
	}
}

// buildUpgraderChain indexes upgraders by source version and verifies the
// chain reaches currentVersion with no gaps.
func buildUpgraderChain(eventType string, currentVersion int, upgraders []EventUpgrader) (map[int]EventUpgrader, error) {
	chain := make(map[int]EventUpgrader, len(upgraders))
	for _, u := range upgraders {
		if u.TargetVersion() != u.SourceVersion()+1 {
			return nil, fmt.Errorf("upgrader must be sequential: got %d -> %d", u.SourceVersion(), u.TargetVersion())
		}
		chain[u.SourceVersion()] = u
	}
	for v := 1; v < currentVersion; v++ {
		if _, ok := chain[v]; !ok {
			return nil, fmt.Errorf("missing upgrader for version %d -> %d for event type %s", v, v+1, eventType)
		}
	}
	return chain, nil
}

// RegisterVersionedEvent registers an event type whose schema has evolved.
// The versions map supplies a prototype per supported version and must
// include currentVersion; the upgraders must form an unbroken chain from
// version 1 up to it.
func (r *VersionRegistry) RegisterVersionedEvent(
	eventType string,
	currentVersion int,
	versions map[int]shared.DomainEvent,
	upgraders ...EventUpgrader,
) error {
	chain, err := buildUpgraderChain(eventType, currentVersion, upgraders)
	if err != nil {
		return err
	}
	if _, ok := versions[currentVersion]; !ok {
		return fmt.Errorf("versions map must include current version %d for event type %s", currentVersion, eventType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[eventType] = &VersionedEventConfig{
		EventType:      eventType,
		CurrentVersion: currentVersion,
		Upgraders:      chain,
		Versions:       versions,
	}
	return nil
}

// RegisterSimpleEvent registers an event type that has never changed shape.
// It lives at version 1 with no upgraders until a migration is needed.
func (r *VersionRegistry) RegisterSimpleEvent(eventType string, eventInstance shared.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[eventType] = &VersionedEventConfig{
		EventType:      eventType,
		CurrentVersion: 1,
		Upgraders:      make(map[int]EventUpgrader),
		Versions:       map[int]shared.DomainEvent{1: eventInstance},
	}
}

func (r *VersionRegistry) GetConfig(eventType string) (*VersionedEventConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[eventType]
	return config, ok
}

func (r *VersionRegistry) GetCurrentVersion(eventType string) (int, bool) {
	config, ok := r.GetConfig(eventType)
	if !ok {
		return 0, false
	}
	return config.CurrentVersion, true
}

func (r *VersionRegistry) IsRegistered(eventType string) bool {
	_, ok := r.GetConfig(eventType)
	return ok
}

func (r *VersionRegistry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.configs))
	for t := range r.configs {
		types = append(types, t)
	}
	return types
}

// UpgradePayload walks the upgrader chain from fromVersion to the latest
// version and returns the rewritten payload together with the version it now
// carries. Payloads already at or past the latest version pass through
// untouched.
func (r *VersionRegistry) UpgradePayload(eventType string, payload []byte, fromVersion int) ([]byte, int, error) {
	config, ok := r.GetConfig(eventType)
	if !ok {
		return nil, 0, fmt.Errorf("unknown event type: %s", eventType)
	}

	if fromVersion >= config.CurrentVersion {
		return payload, config.CurrentVersion, nil
	}

	for v := fromVersion; v < config.CurrentVersion; v++ {
		upgrader, ok := config.Upgraders[v]
		if !ok {
			return nil, 0, fmt.Errorf("missing upgrader for version %d -> %d for event type %s", v, v+1, eventType)
		}
		upgraded, err := upgrader.Upgrade(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to upgrade from v%d to v%d: %w", v, v+1, err)
		}
		payload = upgraded
	}
	return payload, config.CurrentVersion, nil
}

// EventVersionInfo is the minimal projection used to peek at a payload's
// schema version without decoding the whole event.
type EventVersionInfo struct {
	SchemaVersion int `json:"schema_version"`
}

// ExtractVersion reads the schema version out of raw event JSON. Payloads
// written before versioning existed carry no field and count as version 1,
// as do payloads that fail to parse.
func ExtractVersion(payload []byte) int {
	var info EventVersionInfo
	if err := json.Unmarshal(payload, &info); err != nil || info.SchemaVersion == 0 {
		return 1
	}
	return info.SchemaVersion
}

// BaseEventUpgrader implements EventUpgrader around a map transform: the
// payload is decoded to map[string]any, handed to the transform, stamped
// with the target schema version, and re-encoded.
type BaseEventUpgrader struct {
	sourceVersion int
	targetVersion int
	transformFunc func(data map[string]any) (map[string]any, error)
}

var _ EventUpgrader = (*BaseEventUpgrader)(nil)

func NewBaseEventUpgrader(source, target int, transform func(data map[string]any) (map[string]any, error)) *BaseEventUpgrader {
	return &BaseEventUpgrader{
		sourceVersion: source,
		targetVersion: target,
		transformFunc: transform,
	}
}

func (u *BaseEventUpgrader) SourceVersion() int { return u.sourceVersion }

func (u *BaseEventUpgrader) TargetVersion() int { return u.targetVersion }

func (u *BaseEventUpgrader) Upgrade(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	transformed, err := u.transformFunc(data)
	if err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}
	transformed["schema_version"] = u.targetVersion

	result, err := json.Marshal(transformed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transformed payload: %w", err)
	}
	return result, nil
}
