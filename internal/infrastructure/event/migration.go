package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MigrationResult summarizes one batch run of MigratePayloads.
type MigrationResult struct {
	EventType      string
	TotalProcessed int
	Upgraded       int
	AlreadyCurrent int
	Failed         int
	FailedPayloads []FailedMigration
	StartedAt      time.Time
	CompletedAt    time.Time
	FromVersion    int
	ToVersion      int
}

// FailedMigration captures a payload the upgrade chain could not handle.
type FailedMigration struct {
	Payload []byte
	Error   string
	Version int
}

func (r *MigrationResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// EventMigrator batch-upgrades stored event payloads to their current
// schema version. Used by maintenance jobs that rewrite the outbox or an
// archived event log after a schema bump.
type EventMigrator struct {
	serializer *VersionedSerializer
	logger     *zap.Logger
}

func NewEventMigrator(serializer *VersionedSerializer, logger *zap.Logger) *EventMigrator {
	return &EventMigrator{
		serializer: serializer,
		logger:     logger,
	}
}

// MigratePayloads upgrades every payload in the batch that is behind the
// current version. Failures are collected rather than aborting the batch;
// cancellation stops early and returns the partial result with ctx.Err().
func (m *EventMigrator) MigratePayloads(ctx context.Context, eventType string, payloads [][]byte) (*MigrationResult, error) {
	result := &MigrationResult{
		EventType:      eventType,
		StartedAt:      time.Now(),
		FailedPayloads: make([]FailedMigration, 0),
	}

	currentVersion, ok := m.serializer.GetCurrentVersion(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
	result.ToVersion = currentVersion

	for _, payload := range payloads {
		select {
		case <-ctx.Done():
			result.CompletedAt = time.Now()
			return result, ctx.Err()
		default:
		}

		result.TotalProcessed++
		version := ExtractVersion(payload)
		if result.FromVersion == 0 || version < result.FromVersion {
			result.FromVersion = version
		}

		if version >= currentVersion {
			result.AlreadyCurrent++
			continue
		}

		if _, _, err := m.serializer.UpgradePayloadOnly(eventType, payload); err != nil {
			result.Failed++
			result.FailedPayloads = append(result.FailedPayloads, FailedMigration{
				Payload: payload,
				Error:   err.Error(),
				Version: version,
			})
			continue
		}
		result.Upgraded++
	}

	result.CompletedAt = time.Now()
	return result, nil
}

// MigratePayload upgrades a single payload and reports its new version.
func (m *EventMigrator) MigratePayload(eventType string, payload []byte) ([]byte, int, error) {
	return m.serializer.UpgradePayloadOnly(eventType, payload)
}

// ValidateUpgradeChain reports an error when any step from version 1 to
// the current version lacks an upgrader.
func (m *EventMigrator) ValidateUpgradeChain(eventType string) error {
	config, ok := m.serializer.GetVersionRegistry().GetConfig(eventType)
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	for v := 1; v < config.CurrentVersion; v++ {
		if _, ok := config.Upgraders[v]; !ok {
			return fmt.Errorf("missing upgrader for version %d -> %d", v, v+1)
		}
	}
	return nil
}

// EventVersionAnalysis is the version distribution of a payload set.
type EventVersionAnalysis struct {
	EventType      string
	CurrentVersion int
	VersionCounts  map[int]int
	OldestVersion  int
	NewestVersion  int
	TotalEvents    int
	NeedsMigration int
	UpToDate       int
}

// AnalyzePayloads counts payloads per version without touching them, so a
// migration can be sized before it runs.
func (m *EventMigrator) AnalyzePayloads(eventType string, payloads [][]byte) (*EventVersionAnalysis, error) {
	currentVersion, ok := m.serializer.GetCurrentVersion(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	analysis := &EventVersionAnalysis{
		EventType:      eventType,
		CurrentVersion: currentVersion,
		VersionCounts:  make(map[int]int),
		OldestVersion:  -1,
		NewestVersion:  -1,
		TotalEvents:    len(payloads),
	}

	for _, payload := range payloads {
		version := ExtractVersion(payload)
		analysis.VersionCounts[version]++

		if analysis.OldestVersion == -1 || version < analysis.OldestVersion {
			analysis.OldestVersion = version
		}
		if version > analysis.NewestVersion {
			analysis.NewestVersion = version
		}

		if version < currentVersion {
			analysis.NeedsMigration++
		} else {
			analysis.UpToDate++
		}
	}

	return analysis, nil
}

// MigrationPlan lists the upgrade steps between two versions of an event
// type, flagging steps with no registered upgrader.
type MigrationPlan struct {
	EventType        string
	FromVersion      int
	ToVersion        int
	UpgradeSteps     []UpgradeStep
	EstimatedPayload int
}

type UpgradeStep struct {
	FromVersion int
	ToVersion   int
	HasUpgrader bool
}

// CreateMigrationPlan builds the step list from fromVersion up to the
// current version. Already-current input yields an empty plan.
func (m *EventMigrator) CreateMigrationPlan(eventType string, fromVersion int) (*MigrationPlan, error) {
	config, ok := m.serializer.GetVersionRegistry().GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	plan := &MigrationPlan{
		EventType:    eventType,
		FromVersion:  fromVersion,
		ToVersion:    config.CurrentVersion,
		UpgradeSteps: []UpgradeStep{},
	}
	if fromVersion >= config.CurrentVersion {
		return plan, nil
	}

	for v := fromVersion; v < config.CurrentVersion; v++ {
		_, hasUpgrader := config.Upgraders[v]
		plan.UpgradeSteps = append(plan.UpgradeSteps, UpgradeStep{
			FromVersion: v,
			ToVersion:   v + 1,
			HasUpgrader: hasUpgrader,
		})
	}
	return plan, nil
}

// IsValid is true when every step has an upgrader.
func (p *MigrationPlan) IsValid() bool {
	for _, step := range p.UpgradeSteps {
		if !step.HasUpgrader {
			return false
		}
	}
	return true
}

// CommonUpgraders builds upgraders for the usual structural changes, so
// version bumps that only add or rename fields need no custom code.
type CommonUpgraders struct{}

// AddField fills in a field that did not exist in the old version.
func (CommonUpgraders) AddField(sourceVersion int, fieldName string, defaultValue any) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		data[fieldName] = defaultValue
		return data, nil
	})
}

// RemoveField drops a field the new version no longer carries.
func (CommonUpgraders) RemoveField(sourceVersion int, fieldName string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		delete(data, fieldName)
		return data, nil
	})
}

// RenameField moves a value to a new key, leaving absent fields alone.
func (CommonUpgraders) RenameField(sourceVersion int, oldName, newName string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[oldName]; ok {
			data[newName] = val
			delete(data, oldName)
		}
		return data, nil
	})
}

// TransformField rewrites a field value in place.
func (CommonUpgraders) TransformField(sourceVersion int, fieldName string, transform func(any) any) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[fieldName]; ok {
			data[fieldName] = transform(val)
		}
		return data, nil
	})
}

// WrapInObject nests a scalar value under wrapperKey.
func (CommonUpgraders) WrapInObject(sourceVersion int, fieldName, wrapperKey string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[fieldName]; ok {
			data[fieldName] = map[string]any{wrapperKey: val}
		}
		return data, nil
	})
}

// UnwrapFromObject is the inverse of WrapInObject.
func (CommonUpgraders) UnwrapFromObject(sourceVersion int, fieldName, wrapperKey string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[fieldName]; ok {
			if obj, ok := val.(map[string]any); ok {
				if unwrapped, ok := obj[wrapperKey]; ok {
					data[fieldName] = unwrapped
				}
			}
		}
		return data, nil
	})
}

// CopyPayload round-trips a payload through JSON to get an independent
// copy upgraders can mutate safely.
func CopyPayload(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}
	return json.Marshal(data)
}

// MigrationStats accumulates counters across migration runs, keyed by
// event type. Safe for concurrent use.
type MigrationStats struct {
	mu    sync.RWMutex
	stats map[string]*EventMigrationStats
}

type EventMigrationStats struct {
	EventType           string
	TotalMigrated       int64
	TotalFailed         int64
	LastMigratedAt      time.Time
	AverageDurationMs   float64
	MigrationsByVersion map[string]int64 // "v1->v2" => count
}

func NewMigrationStats() *MigrationStats {
	return &MigrationStats{
		stats: make(map[string]*EventMigrationStats),
	}
}

// RecordMigration updates the counters for one upgrade attempt. The
// average duration only tracks successful runs.
func (s *MigrationStats) RecordMigration(eventType string, fromVersion, toVersion int, durationMs float64, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.stats[eventType]
	if !ok {
		stats = &EventMigrationStats{
			EventType:           eventType,
			MigrationsByVersion: make(map[string]int64),
		}
		s.stats[eventType] = stats
	}

	if success {
		stats.TotalMigrated++
		stats.LastMigratedAt = time.Now()
		n := float64(stats.TotalMigrated)
		stats.AverageDurationMs = stats.AverageDurationMs*(n-1)/n + durationMs/n
	} else {
		stats.TotalFailed++
	}

	stats.MigrationsByVersion[fmt.Sprintf("v%d->v%d", fromVersion, toVersion)]++
}

// GetStats returns a copy of the counters for eventType.
func (s *MigrationStats) GetStats(eventType string) (*EventMigrationStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.stats[eventType]
	if !ok {
		return nil, false
	}

	statsCopy := *stats
	statsCopy.MigrationsByVersion = make(map[string]int64, len(stats.MigrationsByVersion))
	for k, v := range stats.MigrationsByVersion {
		statsCopy.MigrationsByVersion[k] = v
	}
	return &statsCopy, true
}
