package event

/*
Event schema versioning

Stored events outlive the structs that produced them. An entry sitting in
the outbox, or a payload replayed from history, may have been written under
an older schema than the one the current binary compiles against. The
versioning layer bridges that gap: every payload records the schema version
it was written under, and deserialization upgrades it step by step to the
version the code expects. Handlers only ever see the latest shape.

How a payload carries its version

BaseDomainEvent has a schema_version field serialized with the payload and
exposed through the VersionedEvent interface. Payloads that predate
versioning have no such field; ExtractVersion treats them as version 1, so
nothing already stored needs rewriting.

The pieces

  - EventUpgrader transforms a payload from one version to the next. Chains
    must be sequential with no gaps: 1->2, 2->3, and so on.
  - VersionRegistry keeps, per event type, the current version, a prototype
    struct for each version, and the upgrader chain.
  - VersionedSerializer wraps the registry behind the same Serialize and
    Deserialize surface as EventSerializer, upgrading transparently on read.
  - EventMigrator batch-upgrades stored payloads and reports what it did.

Registering event types

An event that has never changed shape registers like any other:

	serializer := NewVersionedSerializer(logger)
	serializer.Register("CustomerCreated", &CustomerCreatedEvent{})

When the schema evolves, keep the old struct, add the new one, and wire an
upgrader between them. Say v2 of CustomerCreated adds a customer_name
field:

	v1ToV2 := NewBaseEventUpgrader(1, 2, func(data map[string]any) (map[string]any, error) {
	    data["customer_name"] = "Unknown"
	    return data, nil
	})

	err := serializer.RegisterVersioned(
	    "CustomerCreated",
	    2,
	    map[int]shared.DomainEvent{
	        1: &CustomerCreatedV1{},
	        2: &CustomerCreatedV2{},
	    },
	    v1ToV2,
	)

For mechanical changes, CommonUpgraders builds the closure for you:

	var up CommonUpgraders
	up.AddField(1, "customer_name", "Unknown")
	up.RenameField(2, "customer_id", "client_id")
	up.RemoveField(3, "deprecated_field")
	up.TransformField(4, "amount", func(v any) any { ... })

Migrating stored payloads

EventMigrator works on raw payload slices, so callers decide where bytes
come from (outbox rows, archives) and where upgraded ones go back to:

	migrator := NewEventMigrator(serializer, logger)

	analysis, _ := migrator.AnalyzePayloads("CustomerCreated", payloads)
	// analysis.NeedsMigration, analysis.VersionCounts

	result, _ := migrator.MigratePayloads(ctx, "CustomerCreated", payloads)
	// result.Upgraded, result.Failed, result.Duration()

A failed upgrade never clobbers the original payload; the failure lands in
result.FailedPayloads with the error. CreateMigrationPlan previews the
upgrade steps without touching data, and ValidateUpgradeChain catches gaps
in the chain at startup rather than at read time.

Rules that keep this working

Bump the version whenever a field is added, removed, renamed, or changes
type. Each upgrader covers exactly one transition, and must be
deterministic and tolerant of absent fields. Never rename an event type:
the type name is the routing key, so a renamed type is a new type. Deploy
the upgrader before any producer emits the new version, then batch-migrate
what is already stored.

Adding a version, end to end:

 1. Define the vN+1 struct next to the existing ones.
 2. Write and unit-test the vN -> vN+1 upgrader on its own, then test the
    full chain from v1.
 3. Switch the type's registration in RegisterAllEvents to
    RegisterVersioned with the new current version.
 4. Run EventMigrator over stored payloads and watch result.Failed.

Failure modes

An unknown event type or a gap in the upgrader chain returns an error
identifying the type and the missing transition. A payload whose version
field cannot be parsed falls back to version 1, matching how pre-versioning
payloads are read.
*/
