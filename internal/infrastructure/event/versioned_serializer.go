package event

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/crmcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VersionedSerializer is an event serializer with schema migration built in:
// payloads written under an older schema version are upgraded through the
// registered upgrader chain before being decoded into the current struct.
type VersionedSerializer struct {
	versionRegistry *VersionRegistry
	logger          *zap.Logger
}

func NewVersionedSerializer(logger *zap.Logger) *VersionedSerializer {
	return &VersionedSerializer{
		versionRegistry: NewVersionRegistry(),
		logger:          logger,
	}
}

// Register registers an unversioned (version 1) event type. The signature
// matches EventSerializer so the two are interchangeable at call sites.
func (s *VersionedSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.versionRegistry.RegisterSimpleEvent(eventType, eventInstance)
}

// RegisterVersioned registers an event type together with its per-version
// prototypes and the upgrader chain that bridges them.
func (s *VersionedSerializer) RegisterVersioned(
	eventType string,
	currentVersion int,
	versions map[int]shared.DomainEvent,
	upgraders ...EventUpgrader,
) error {
	return s.versionRegistry.RegisterVersionedEvent(eventType, currentVersion, versions, upgraders...)
}

// Serialize encodes a domain event as JSON. The schema version travels in
// the payload itself via the base event's schema_version field.
func (s *VersionedSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// SerializeWithVersion is an alias for Serialize kept for callers that want
// to be explicit about version stamping.
func (s *VersionedSerializer) SerializeWithVersion(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// decodeAs allocates a fresh instance of the prototype's concrete type and
// unmarshals the payload into it.
func decodeAs(prototype shared.DomainEvent, payload []byte) (shared.DomainEvent, error) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	instance := reflect.New(t).Interface()

	if err := json.Unmarshal(payload, instance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := instance.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}
	return event, nil
}

// Deserialize decodes JSON into the current version of the event type,
// upgrading older payloads first.
func (s *VersionedSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	config, ok := s.versionRegistry.GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	payload := data
	if version := ExtractVersion(data); version < config.CurrentVersion {
		s.logVersionUpgrade(eventType, version, config.CurrentVersion)
		upgraded, _, err := s.versionRegistry.UpgradePayload(eventType, data, version)
		if err != nil {
			return nil, fmt.Errorf("failed to upgrade event: %w", err)
		}
		payload = upgraded
	}

	prototype, ok := config.Versions[config.CurrentVersion]
	if !ok {
		return nil, fmt.Errorf("no event type registered for version %d of %s", config.CurrentVersion, eventType)
	}
	return decodeAs(prototype, payload)
}

// DeserializeToVersion decodes JSON into a specific schema version,
// upgrading only as far as targetVersion. Downgrades are not supported.
func (s *VersionedSerializer) DeserializeToVersion(eventType string, data []byte, targetVersion int) (shared.DomainEvent, error) {
	config, ok := s.versionRegistry.GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	version := ExtractVersion(data)
	if version > targetVersion {
		return nil, fmt.Errorf("cannot downgrade event from version %d to %d", version, targetVersion)
	}

	payload := data
	for v := version; v < targetVersion; v++ {
		upgrader, ok := config.Upgraders[v]
		if !ok {
			return nil, fmt.Errorf("missing upgrader for version %d -> %d", v, v+1)
		}
		upgraded, err := upgrader.Upgrade(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to upgrade from v%d to v%d: %w", v, v+1, err)
		}
		payload = upgraded
	}

	prototype, ok := config.Versions[targetVersion]
	if !ok {
		return nil, fmt.Errorf("no event type registered for version %d of %s", targetVersion, eventType)
	}
	return decodeAs(prototype, payload)
}

func (s *VersionedSerializer) IsRegistered(eventType string) bool {
	return s.versionRegistry.IsRegistered(eventType)
}

func (s *VersionedSerializer) RegisteredTypes() []string {
	return s.versionRegistry.RegisteredTypes()
}

func (s *VersionedSerializer) GetCurrentVersion(eventType string) (int, bool) {
	return s.versionRegistry.GetCurrentVersion(eventType)
}

// GetVersionRegistry exposes the underlying registry for tooling such as the
// batch migrator.
func (s *VersionedSerializer) GetVersionRegistry() *VersionRegistry {
	return s.versionRegistry
}

func (s *VersionedSerializer) logVersionUpgrade(eventType string, from, to int) {
	if s.logger != nil {
		s.logger.Debug("upgrading event version",
			zap.String("event_type", eventType),
			zap.Int("from_version", from),
			zap.Int("to_version", to),
		)
	}
}

// UpgradePayloadOnly upgrades a raw payload without decoding it into a
// struct. Batch migrations use this to rewrite stored rows in place.
func (s *VersionedSerializer) UpgradePayloadOnly(eventType string, data []byte) ([]byte, int, error) {
	return s.versionRegistry.UpgradePayload(eventType, data, ExtractVersion(data))
}

func (s *VersionedSerializer) GetEventVersion(data []byte) int {
	return ExtractVersion(data)
}
