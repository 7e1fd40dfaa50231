package mob

// Tag names the kind of a record. Tags are ASCII identifiers compared
// case-sensitively.
type Tag string

// MaxTagLen is the longest tag the framing layer accepts.
const MaxTagLen = 64

// Valid reports whether t can be framed: 1..MaxTagLen bytes of [A-Za-z0-9_].
func (t Tag) Valid() bool {
	if len(t) == 0 || len(t) > MaxTagLen {
		return false
	}
	for i := 0; i < len(t); i++ {
		c := t[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}

// Document structure.
const (
	TagObjectDBFile      Tag = "OBJECT_DB_FILE"
	TagBaseDBFile        Tag = "SC_OBJECT_DB_FILE"
	TagQuestDBFile       Tag = "PR_OBJECT_DB_FILE"
	TagScript            Tag = "SS_TEXT"
	TagScriptOld         Tag = "SS_TEXT_OLD"
	TagMainRange         Tag = "MAIN_RANGE"
	TagSecRange          Tag = "SEC_RANGE"
	TagRange             Tag = "RANGE"
	TagMinID             Tag = "MIN_ID"
	TagMaxID             Tag = "MAX_ID"
	TagDiplomacy         Tag = "DIPLOMATION"
	TagDiplomacyTable    Tag = "DIPLOMATION_FOF"
	TagDiplomacyNames    Tag = "DIPLOMATION_PL_NAMES"
	TagWorldSet          Tag = "WORLD_SET"
	TagWindDir           Tag = "WS_WIND_DIR"
	TagWindStrength      Tag = "WS_WIND_STR"
	TagTime              Tag = "WS_TIME"
	TagAmbient           Tag = "WS_AMBIENT"
	TagSunLight          Tag = "WS_SUN_LIGHT"
	TagVSSSection        Tag = "VSS_SECTION"
	TagDirectory         Tag = "DIRICTORY"
	TagDirectoryElements Tag = "DIRICTORY_ELEMENTS"
	TagObjectSection     Tag = "OBJECT_SECTION"
	TagAIGraph           Tag = "AI_GRAPH"
)

// Object kinds.
const (
	TagObject    Tag = "OBJECT"
	TagLever     Tag = "LEVER"
	TagUnit      Tag = "UNIT"
	TagTorch     Tag = "TORCH"
	TagMagicTrap Tag = "MAGIC_TRAP"
	TagLight     Tag = "LIGHT"
	TagSound     Tag = "SOUND"
	TagParticle  Tag = "PARTICL"
)

// World object fields.
const (
	TagNID            Tag = "NID"
	TagObjType        Tag = "OBJ_TYPE"
	TagObjName        Tag = "OBJ_NAME"
	TagObjTemplate    Tag = "OBJ_TEMPLATE"
	TagObjPrimTexture Tag = "OBJ_PRIM_TXTR"
	TagObjSecTexture  Tag = "OBJ_SEC_TXTR"
	TagObjPosition    Tag = "OBJ_POSITION"
	TagObjRotation    Tag = "OBJ_ROTATION"
	TagObjComplection Tag = "OBJ_COMPLECTION"
	TagObjBodyParts   Tag = "OBJ_BODYPARTS"
	TagParentTemplate Tag = "PARENT_TEMPLATE"
	TagObjComments    Tag = "OBJ_COMMENTS"
	TagObjPlayer      Tag = "OBJ_PLAYER"
	TagObjParentID    Tag = "OBJ_PARENT_ID"
	TagObjUseInScript Tag = "OBJ_USE_IN_SCRIPT"
	TagObjIsShadow    Tag = "OBJ_IS_SHADOW"
	TagObjQuestInfo   Tag = "OBJ_QUEST_INFO"
)

// Unit fields.
const (
	TagUnitPrototype  Tag = "UNIT_PROTOTYPE"
	TagUnitNeedImport Tag = "UNIT_NEED_IMPORT"
	TagUnitItems      Tag = "UNIT_ITEMS"
	TagUnitQuickItems Tag = "UNIT_QUICK_ITEMS"
	TagUnitQuestItems Tag = "UNIT_QUEST_ITEMS"
	TagUnitSpells     Tag = "UNIT_SPELLS"
	TagUnitWeapons    Tag = "UNIT_WEAPONS"
	TagUnitArmors     Tag = "UNIT_ARMORS"
	TagUnitStats      Tag = "UNIT_STATS"
	TagUnitLogic      Tag = "UNIT_LOGIC"
)

// Lever fields.
const (
	TagLeverCurState     Tag = "LEVER_CUR_STATE"
	TagLeverTotalState   Tag = "LEVER_TOTAL_STATE"
	TagLeverIsCycled     Tag = "LEVER_IS_CYCLED"
	TagLeverCastOnce     Tag = "LEVER_CAST_ONCE"
	TagLeverIsDoor       Tag = "LEVER_IS_DOOR"
	TagLeverRecalcGraph  Tag = "LEVER_RECALC_GRAPH"
	TagLeverScienceStats Tag = "LEVER_SCIENCE_STATS"
)

// Torch fields.
const (
	TagTorchStrength Tag = "TORCH_STRENGHT"
	TagTorchPtLink   Tag = "TORCH_PTLINK"
	TagTorchSound    Tag = "TORCH_SOUND"
)

// Magic trap fields.
const (
	TagTrapDiplomacy    Tag = "MAGIC_TRAP_DIPLOMACY"
	TagTrapSpell        Tag = "MAGIC_TRAP_SPELL"
	TagTrapCastInterval Tag = "MAGIC_TRAP_CAST_INTERVAL"
	TagTrapCastOnce     Tag = "MAGIC_TRAP_CAST_ONCE"
	TagTrapAreas        Tag = "MAGIC_TRAP_AREAS"
	TagTrapTargets      Tag = "MAGIC_TRAP_TARGETS"
)

// Light fields.
const (
	TagLightID       Tag = "LIGHT_ID"
	TagLightName     Tag = "LIGHT_NAME"
	TagLightPosition Tag = "LIGHT_POSITION"
	TagLightRange    Tag = "LIGHT_RANGE"
	TagLightShadow   Tag = "LIGHT_SHADOW"
	TagLightColor    Tag = "LIGHT_COLOR"
	TagLightComments Tag = "LIGHT_COMMENTS"
)

// Sound fields.
const (
	TagSoundID       Tag = "SOUND_ID"
	TagSoundName     Tag = "SOUND_NAME"
	TagSoundPosition Tag = "SOUND_POSITION"
	TagSoundRange    Tag = "SOUND_RANGE"
	TagSoundRange2   Tag = "SOUND_RANGE2"
	TagSoundMin      Tag = "SOUND_MIN"
	TagSoundMax      Tag = "SOUND_MAX"
	TagSoundVolume   Tag = "SOUND_VOLUME"
	TagSoundResName  Tag = "SOUND_RESNAME"
	TagSoundAmbient  Tag = "SOUND_AMBIENT"
	TagSoundIsMusic  Tag = "SOUND_IS_MUSIC"
	TagSoundComments Tag = "SOUND_COMMENTS"
)

// Particle fields.
const (
	TagParticleID       Tag = "PARTICL_ID"
	TagParticleName     Tag = "PARTICL_NAME"
	TagParticlePosition Tag = "PARTICL_POSITION"
	TagParticleType     Tag = "PARTICL_TYPE"
	TagParticleScale    Tag = "PARTICL_SCALE"
	TagParticleComments Tag = "PARTICL_COMMENTS"
)

// Records written by older editors. They are recognised so they can be
// skipped; their payloads are never decoded.
const (
	TagObjIndex        Tag = "OBJ_INDEX"
	TagObjTexture      Tag = "OBJ_TEXTURE"
	TagObjDefLogic     Tag = "OBJ_DEF_LOGIC"
	TagObjR            Tag = "OBJ_R"
	TagLightSection    Tag = "LIGHT_SECTION"
	TagParticleSection Tag = "PARTICL_SECTION"
	TagSoundSection    Tag = "SOUND_SECTION"
)

// Shape says whether a record's payload is nested records or raw data.
type Shape int

// Record shapes.
const (
	ShapeUnknown Shape = iota
	ShapeSection
	ShapeLeaf
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeSection:
		return "section"
	case ShapeLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

var sectionTags = []Tag{
	TagObjectDBFile, TagBaseDBFile, TagQuestDBFile,
	TagMainRange, TagSecRange, TagRange,
	TagDiplomacy, TagWorldSet, TagObjectSection,
	TagObject, TagLever, TagUnit, TagTorch, TagMagicTrap,
	TagLight, TagSound, TagParticle,
}

var leafTags = []Tag{
	TagScript, TagScriptOld, TagMinID, TagMaxID,
	TagDiplomacyTable, TagDiplomacyNames,
	TagWindDir, TagWindStrength, TagTime, TagAmbient, TagSunLight,
	TagVSSSection, TagDirectory, TagDirectoryElements, TagAIGraph,

	TagNID, TagObjType, TagObjName, TagObjTemplate, TagObjPrimTexture,
	TagObjSecTexture, TagObjPosition, TagObjRotation, TagObjComplection,
	TagObjBodyParts, TagParentTemplate, TagObjComments, TagObjPlayer,
	TagObjParentID, TagObjUseInScript, TagObjIsShadow, TagObjQuestInfo,

	TagUnitPrototype, TagUnitNeedImport, TagUnitItems, TagUnitQuickItems,
	TagUnitQuestItems, TagUnitSpells, TagUnitWeapons, TagUnitArmors,
	TagUnitStats, TagUnitLogic,

	TagLeverCurState, TagLeverTotalState, TagLeverIsCycled, TagLeverCastOnce,
	TagLeverIsDoor, TagLeverRecalcGraph, TagLeverScienceStats,

	TagTorchStrength, TagTorchPtLink, TagTorchSound,

	TagTrapDiplomacy, TagTrapSpell, TagTrapCastInterval, TagTrapCastOnce,
	TagTrapAreas, TagTrapTargets,

	TagLightID, TagLightName, TagLightPosition, TagLightRange,
	TagLightShadow, TagLightColor, TagLightComments,

	TagSoundID, TagSoundName, TagSoundPosition, TagSoundRange, TagSoundRange2,
	TagSoundMin, TagSoundMax, TagSoundVolume, TagSoundResName,
	TagSoundAmbient, TagSoundIsMusic, TagSoundComments,

	TagParticleID, TagParticleName, TagParticlePosition, TagParticleType,
	TagParticleScale, TagParticleComments,

	TagObjIndex, TagObjTexture, TagObjDefLogic, TagObjR,
	TagLightSection, TagParticleSection, TagSoundSection,
}

// vocabulary is filled once at init and only read afterwards.
var vocabulary = func() map[Tag]Shape {
	m := make(map[Tag]Shape, len(sectionTags)+len(leafTags))
	for _, t := range sectionTags {
		m[t] = ShapeSection
	}
	for _, t := range leafTags {
		m[t] = ShapeLeaf
	}
	return m
}()

// ShapeOf returns the shape of a known tag, or ShapeUnknown.
func ShapeOf(t Tag) Shape {
	return vocabulary[t]
}
