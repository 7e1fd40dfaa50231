// Package formats provides the Evil Islands MOB document model on top of
// the record codec in pkg/mob.
//
// A MOB file holds one OBJECT_DB_FILE root followed by an optional AI_GRAPH
// blob. The root carries a BASE_DB_FILE or QUEST_DB_FILE marker, the zone
// script, map ID ranges, the diplomacy table, world settings and the object
// list. Object records are decoded into typed variants (see ObjectKind).
package formats
