package formats

import (
	"fmt"

	"github.com/Grabarrz90/ei-maper/pkg/math"
	"github.com/Grabarrz90/ei-maper/pkg/mob"
)

// ObjectKind identifies the record type of a placed object.
type ObjectKind int

const (
	ObjectWorld     ObjectKind = iota + 1 // Static scenery (OBJECT)
	ObjectLever                           // Switches and doors
	ObjectUnit                            // Creatures and NPCs
	ObjectTorch                           // Burning light sources with an attached sound
	ObjectMagicTrap                       // Invisible spell casters
	ObjectLight                           // Point lights
	ObjectSound                           // Ambient sound emitters
	ObjectParticle                        // Particle emitters
)

// Defaults the map editor assigns to freshly placed world objects.
const (
	DefaultObjectType       = 54
	DefaultSecondaryTexture = "default0"
	NoParentID              = 0xFFFFFFFF
)

// Magic traps are always written with these model and texture names.
const (
	trapTemplate         = "efcu0"
	trapPrimaryTexture   = "sound"
	trapSecondaryTexture = "none"
)

type objectKindInfo struct {
	kind ObjectKind
	tag  mob.Tag
	name string
	new  func() Object
}

// objectKinds is the tag registry. It is never modified after init.
var objectKinds = []objectKindInfo{
	{ObjectWorld, mob.TagObject, "Object", func() Object { return Object{Kind: ObjectWorld, World: newWorldObject()} }},
	{ObjectLever, mob.TagLever, "Lever", func() Object { return Object{Kind: ObjectLever, Lever: &Lever{WorldObject: *newWorldObject()}} }},
	{ObjectUnit, mob.TagUnit, "Unit", func() Object { return Object{Kind: ObjectUnit, Unit: &Unit{WorldObject: *newWorldObject()}} }},
	{ObjectTorch, mob.TagTorch, "Torch", func() Object { return Object{Kind: ObjectTorch, Torch: &Torch{WorldObject: *newWorldObject()}} }},
	{ObjectMagicTrap, mob.TagMagicTrap, "MagicTrap", func() Object { return Object{Kind: ObjectMagicTrap, Trap: newMagicTrap()} }},
	{ObjectLight, mob.TagLight, "Light", func() Object { return Object{Kind: ObjectLight, Light: &Light{}} }},
	{ObjectSound, mob.TagSound, "Sound", func() Object { return Object{Kind: ObjectSound, Sound: &Sound{}} }},
	{ObjectParticle, mob.TagParticle, "Particle", func() Object { return Object{Kind: ObjectParticle, Particle: &Particle{}} }},
}

func kindInfo(k ObjectKind) (objectKindInfo, bool) {
	if k < ObjectWorld || int(k) > len(objectKinds) {
		return objectKindInfo{}, false
	}
	return objectKinds[k-1], true
}

func kindInfoByTag(tag mob.Tag) (objectKindInfo, bool) {
	for _, info := range objectKinds {
		if info.tag == tag {
			return info, true
		}
	}
	return objectKindInfo{}, false
}

// ObjectKinds lists every kind in registry order.
func ObjectKinds() []ObjectKind {
	kinds := make([]ObjectKind, len(objectKinds))
	for i, info := range objectKinds {
		kinds[i] = info.kind
	}
	return kinds
}

// ParseObjectKind resolves a kind from its name (as returned by String) or
// record tag.
func ParseObjectKind(s string) (ObjectKind, error) {
	for _, info := range objectKinds {
		if s == info.name || mob.Tag(s) == info.tag {
			return info.kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownObjectKind, s)
}

// String returns a human-readable kind name.
func (k ObjectKind) String() string {
	if info, ok := kindInfo(k); ok {
		return info.name
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// Tag returns the record tag objects of this kind are stored under.
func (k ObjectKind) Tag() mob.Tag {
	info, _ := kindInfo(k)
	return info.tag
}

// WorldObject holds the fields shared by every model-based object.
type WorldObject struct {
	MapID            uint32
	Type             uint32
	Name             string
	Template         string // Model name
	ParentTemplate   string
	PrimaryTexture   string
	SecondaryTexture string
	Comments         string
	Position         math.Vec3
	Rotation         math.Quat
	Complection      math.Vec3 // Per-axis scale
	BodyParts        []string
	Player           uint8 // Diplomacy group
	ParentID         uint32
	UseInScript      bool
	IsShadow         bool
	QuestInfo        string
}

func newWorldObject() *WorldObject {
	return &WorldObject{
		Type:             DefaultObjectType,
		SecondaryTexture: DefaultSecondaryTexture,
		Rotation:         math.QuatIdentity(),
		ParentID:         NoParentID,
		IsShadow:         true,
	}
}

func (o *WorldObject) cases() []mob.Case {
	return []mob.Case{
		mob.U32Field(mob.TagNID, &o.MapID),
		mob.U32Field(mob.TagObjType, &o.Type),
		mob.StringField(mob.TagObjName, &o.Name),
		mob.StringField(mob.TagObjTemplate, &o.Template),
		mob.StringField(mob.TagObjPrimTexture, &o.PrimaryTexture),
		mob.StringField(mob.TagObjSecTexture, &o.SecondaryTexture),
		mob.Vec3Field(mob.TagObjPosition, &o.Position),
		mob.QuatField(mob.TagObjRotation, &o.Rotation),
		mob.Vec3Field(mob.TagObjComplection, &o.Complection),
		mob.StringArrayField(mob.TagObjBodyParts, &o.BodyParts),
		mob.StringField(mob.TagParentTemplate, &o.ParentTemplate),
		mob.StringField(mob.TagObjComments, &o.Comments),
		mob.ByteField(mob.TagObjPlayer, &o.Player),
		mob.U32Field(mob.TagObjParentID, &o.ParentID),
		mob.BoolField(mob.TagObjUseInScript, &o.UseInScript),
		mob.BoolField(mob.TagObjIsShadow, &o.IsShadow),
		mob.StringField(mob.TagObjQuestInfo, &o.QuestInfo),
		legacyCase(mob.TagObjIndex),
		legacyCase(mob.TagObjTexture),
		legacyCase(mob.TagObjDefLogic),
		legacyCase(mob.TagObjR),
	}
}

// ParseRecords implements mob.Record.
func (o *WorldObject) ParseRecords(r *mob.Reader) (int, error) {
	return mob.NewDispatcher(o.cases()...).Run(r)
}

// EmitRecords implements mob.Record.
func (o *WorldObject) EmitRecords(w *mob.Writer) int {
	return o.emit(w, o.Template, o.PrimaryTexture, o.SecondaryTexture)
}

func (o *WorldObject) emit(w *mob.Writer, template, primary, secondary string) int {
	n := w.StringArrayRecord(mob.TagObjBodyParts, o.BodyParts)
	n += w.ByteRecord(mob.TagObjPlayer, o.Player)
	n += w.U32Record(mob.TagNID, o.MapID)
	n += w.U32Record(mob.TagObjType, o.Type)
	n += w.StringRecord(mob.TagObjName, o.Name)
	n += w.StringRecord(mob.TagObjTemplate, template)
	n += w.StringRecord(mob.TagParentTemplate, o.ParentTemplate)
	n += w.StringRecord(mob.TagObjPrimTexture, primary)
	n += w.StringRecord(mob.TagObjSecTexture, secondary)
	n += w.StringRecord(mob.TagObjComments, o.Comments)
	n += w.Vec3Record(mob.TagObjPosition, o.Position)
	n += w.QuatRecord(mob.TagObjRotation, o.Rotation)
	n += w.BoolRecord(mob.TagObjUseInScript, o.UseInScript)
	n += w.BoolRecord(mob.TagObjIsShadow, o.IsShadow)
	n += w.U32Record(mob.TagObjParentID, o.ParentID)
	n += w.StringRecord(mob.TagObjQuestInfo, o.QuestInfo)
	n += w.Vec3Record(mob.TagObjComplection, o.Complection)
	return n
}

// Unit is a creature or NPC.
type Unit struct {
	WorldObject
	Prototype  string // Database entry the unit is built from
	NeedImport bool
	Items      []string
	QuickItems []string
	QuestItems []string
	Spells     []string
	Weapons    []string
	Armors     []string
	Stats      []byte // Opaque stat block
	Logic      []byte // Opaque behaviour block
}

// ParseRecords implements mob.Record.
func (u *Unit) ParseRecords(r *mob.Reader) (int, error) {
	cases := append(u.WorldObject.cases(),
		mob.StringField(mob.TagUnitPrototype, &u.Prototype),
		mob.BoolField(mob.TagUnitNeedImport, &u.NeedImport),
		mob.StringArrayField(mob.TagUnitItems, &u.Items),
		mob.StringArrayField(mob.TagUnitQuickItems, &u.QuickItems),
		mob.StringArrayField(mob.TagUnitQuestItems, &u.QuestItems),
		mob.StringArrayField(mob.TagUnitSpells, &u.Spells),
		mob.StringArrayField(mob.TagUnitWeapons, &u.Weapons),
		mob.StringArrayField(mob.TagUnitArmors, &u.Armors),
		mob.BytesField(mob.TagUnitStats, &u.Stats),
		mob.BytesField(mob.TagUnitLogic, &u.Logic),
	)
	return mob.NewDispatcher(cases...).Run(r)
}

// EmitRecords implements mob.Record.
func (u *Unit) EmitRecords(w *mob.Writer) int {
	n := u.WorldObject.EmitRecords(w)
	n += w.StringRecord(mob.TagUnitPrototype, u.Prototype)
	n += w.BoolRecord(mob.TagUnitNeedImport, u.NeedImport)
	n += w.StringArrayRecord(mob.TagUnitItems, u.Items)
	n += w.StringArrayRecord(mob.TagUnitQuickItems, u.QuickItems)
	n += w.StringArrayRecord(mob.TagUnitQuestItems, u.QuestItems)
	n += w.StringArrayRecord(mob.TagUnitSpells, u.Spells)
	n += w.StringArrayRecord(mob.TagUnitWeapons, u.Weapons)
	n += w.StringArrayRecord(mob.TagUnitArmors, u.Armors)
	n += w.BytesRecord(mob.TagUnitStats, u.Stats)
	n += w.BytesRecord(mob.TagUnitLogic, u.Logic)
	return n
}

// Lever is a switch, door or chest with discrete states.
type Lever struct {
	WorldObject
	CurrentState uint8
	TotalStates  uint8
	IsCycled     bool
	CastOnce     bool
	IsDoor       bool
	RecalcGraph  bool   // Rebuild the AI graph when the state changes
	ScienceStats []byte // Opaque lock-picking requirements
}

// ParseRecords implements mob.Record.
func (l *Lever) ParseRecords(r *mob.Reader) (int, error) {
	cases := append(l.WorldObject.cases(),
		mob.ByteField(mob.TagLeverCurState, &l.CurrentState),
		mob.ByteField(mob.TagLeverTotalState, &l.TotalStates),
		mob.BoolField(mob.TagLeverIsCycled, &l.IsCycled),
		mob.BoolField(mob.TagLeverCastOnce, &l.CastOnce),
		mob.BoolField(mob.TagLeverIsDoor, &l.IsDoor),
		mob.BoolField(mob.TagLeverRecalcGraph, &l.RecalcGraph),
		mob.BytesField(mob.TagLeverScienceStats, &l.ScienceStats),
	)
	return mob.NewDispatcher(cases...).Run(r)
}

// EmitRecords implements mob.Record.
func (l *Lever) EmitRecords(w *mob.Writer) int {
	n := l.WorldObject.EmitRecords(w)
	n += w.ByteRecord(mob.TagLeverCurState, l.CurrentState)
	n += w.ByteRecord(mob.TagLeverTotalState, l.TotalStates)
	n += w.BoolRecord(mob.TagLeverIsCycled, l.IsCycled)
	n += w.BoolRecord(mob.TagLeverCastOnce, l.CastOnce)
	n += w.BoolRecord(mob.TagLeverIsDoor, l.IsDoor)
	n += w.BoolRecord(mob.TagLeverRecalcGraph, l.RecalcGraph)
	n += w.BytesRecord(mob.TagLeverScienceStats, l.ScienceStats)
	return n
}

// Torch is a world object that emits light and sound.
type Torch struct {
	WorldObject
	Strength float32
	PtLink   math.Vec3 // Flame anchor relative to the model
	Sound    string
}

// ParseRecords implements mob.Record.
func (t *Torch) ParseRecords(r *mob.Reader) (int, error) {
	cases := append(t.WorldObject.cases(),
		mob.FloatField(mob.TagTorchStrength, &t.Strength),
		mob.Vec3Field(mob.TagTorchPtLink, &t.PtLink),
		mob.StringField(mob.TagTorchSound, &t.Sound),
	)
	return mob.NewDispatcher(cases...).Run(r)
}

// EmitRecords implements mob.Record.
func (t *Torch) EmitRecords(w *mob.Writer) int {
	n := t.WorldObject.EmitRecords(w)
	n += w.FloatRecord(mob.TagTorchStrength, t.Strength)
	n += w.Vec3Record(mob.TagTorchPtLink, t.PtLink)
	n += w.StringRecord(mob.TagTorchSound, t.Sound)
	return n
}

// MagicTrap casts a spell at targets entering its areas.
type MagicTrap struct {
	WorldObject
	Diplomacy    uint32 // Group the trap belongs to
	Spell        string
	CastInterval uint32
	CastOnce     bool
	Areas        []byte // Opaque trigger area list
	Targets      []byte // Opaque target point list
}

func newMagicTrap() *MagicTrap {
	t := &MagicTrap{WorldObject: *newWorldObject()}
	t.Template = trapTemplate
	t.PrimaryTexture = trapPrimaryTexture
	t.SecondaryTexture = trapSecondaryTexture
	return t
}

// ParseRecords implements mob.Record.
func (t *MagicTrap) ParseRecords(r *mob.Reader) (int, error) {
	cases := append(t.WorldObject.cases(),
		mob.U32Field(mob.TagTrapDiplomacy, &t.Diplomacy),
		mob.StringField(mob.TagTrapSpell, &t.Spell),
		mob.U32Field(mob.TagTrapCastInterval, &t.CastInterval),
		mob.BoolField(mob.TagTrapCastOnce, &t.CastOnce),
		mob.BytesField(mob.TagTrapAreas, &t.Areas),
		mob.BytesField(mob.TagTrapTargets, &t.Targets),
	)
	return mob.NewDispatcher(cases...).Run(r)
}

// EmitRecords implements mob.Record. The model and texture names are always
// written as the fixed values the game expects for traps.
func (t *MagicTrap) EmitRecords(w *mob.Writer) int {
	n := t.WorldObject.emit(w, trapTemplate, trapPrimaryTexture, trapSecondaryTexture)
	n += w.U32Record(mob.TagTrapDiplomacy, t.Diplomacy)
	n += w.StringRecord(mob.TagTrapSpell, t.Spell)
	n += w.U32Record(mob.TagTrapCastInterval, t.CastInterval)
	n += w.BoolRecord(mob.TagTrapCastOnce, t.CastOnce)
	n += w.BytesRecord(mob.TagTrapAreas, t.Areas)
	n += w.BytesRecord(mob.TagTrapTargets, t.Targets)
	return n
}

// Light is a point light.
type Light struct {
	ID       uint32
	Name     string
	Position math.Vec3
	Range    float32
	Shadow   bool
	Color    math.Vec3 // RGB, 0-1
	Comments string
}

// ParseRecords implements mob.Record.
func (l *Light) ParseRecords(r *mob.Reader) (int, error) {
	return mob.NewDispatcher(
		mob.U32Field(mob.TagLightID, &l.ID),
		mob.StringField(mob.TagLightName, &l.Name),
		mob.Vec3Field(mob.TagLightPosition, &l.Position),
		mob.FloatField(mob.TagLightRange, &l.Range),
		mob.BoolField(mob.TagLightShadow, &l.Shadow),
		mob.Vec3Field(mob.TagLightColor, &l.Color),
		mob.StringField(mob.TagLightComments, &l.Comments),
	).Run(r)
}

// EmitRecords implements mob.Record.
func (l *Light) EmitRecords(w *mob.Writer) int {
	n := w.U32Record(mob.TagLightID, l.ID)
	n += w.StringRecord(mob.TagLightName, l.Name)
	n += w.Vec3Record(mob.TagLightPosition, l.Position)
	n += w.FloatRecord(mob.TagLightRange, l.Range)
	n += w.BoolRecord(mob.TagLightShadow, l.Shadow)
	n += w.Vec3Record(mob.TagLightColor, l.Color)
	n += w.StringRecord(mob.TagLightComments, l.Comments)
	return n
}

// Sound is an ambient sound emitter.
type Sound struct {
	ID        uint32
	Name      string
	Position  math.Vec3
	Range     uint32 // Inner radius
	Range2    uint32 // Outer radius
	Min       uint32 // Minimum replay delay
	Max       uint32 // Maximum replay delay
	Volume    uint32
	Resources []string
	Ambient   bool
	IsMusic   bool
	Comments  string
}

// ParseRecords implements mob.Record.
func (s *Sound) ParseRecords(r *mob.Reader) (int, error) {
	return mob.NewDispatcher(
		mob.U32Field(mob.TagSoundID, &s.ID),
		mob.StringField(mob.TagSoundName, &s.Name),
		mob.Vec3Field(mob.TagSoundPosition, &s.Position),
		mob.U32Field(mob.TagSoundRange, &s.Range),
		mob.U32Field(mob.TagSoundRange2, &s.Range2),
		mob.U32Field(mob.TagSoundMin, &s.Min),
		mob.U32Field(mob.TagSoundMax, &s.Max),
		mob.U32Field(mob.TagSoundVolume, &s.Volume),
		mob.StringArrayField(mob.TagSoundResName, &s.Resources),
		mob.BoolField(mob.TagSoundAmbient, &s.Ambient),
		mob.BoolField(mob.TagSoundIsMusic, &s.IsMusic),
		mob.StringField(mob.TagSoundComments, &s.Comments),
	).Run(r)
}

// EmitRecords implements mob.Record.
func (s *Sound) EmitRecords(w *mob.Writer) int {
	n := w.U32Record(mob.TagSoundID, s.ID)
	n += w.StringRecord(mob.TagSoundName, s.Name)
	n += w.Vec3Record(mob.TagSoundPosition, s.Position)
	n += w.U32Record(mob.TagSoundRange, s.Range)
	n += w.U32Record(mob.TagSoundRange2, s.Range2)
	n += w.U32Record(mob.TagSoundMin, s.Min)
	n += w.U32Record(mob.TagSoundMax, s.Max)
	n += w.U32Record(mob.TagSoundVolume, s.Volume)
	n += w.StringArrayRecord(mob.TagSoundResName, s.Resources)
	n += w.BoolRecord(mob.TagSoundAmbient, s.Ambient)
	n += w.BoolRecord(mob.TagSoundIsMusic, s.IsMusic)
	n += w.StringRecord(mob.TagSoundComments, s.Comments)
	return n
}

// Particle is a particle emitter.
type Particle struct {
	ID       uint32
	Name     string
	Position math.Vec3
	Type     uint32
	Scale    float32
	Comments string
}

// ParseRecords implements mob.Record.
func (p *Particle) ParseRecords(r *mob.Reader) (int, error) {
	return mob.NewDispatcher(
		mob.U32Field(mob.TagParticleID, &p.ID),
		mob.StringField(mob.TagParticleName, &p.Name),
		mob.Vec3Field(mob.TagParticlePosition, &p.Position),
		mob.U32Field(mob.TagParticleType, &p.Type),
		mob.FloatField(mob.TagParticleScale, &p.Scale),
		mob.StringField(mob.TagParticleComments, &p.Comments),
	).Run(r)
}

// EmitRecords implements mob.Record.
func (p *Particle) EmitRecords(w *mob.Writer) int {
	n := w.U32Record(mob.TagParticleID, p.ID)
	n += w.StringRecord(mob.TagParticleName, p.Name)
	n += w.Vec3Record(mob.TagParticlePosition, p.Position)
	n += w.U32Record(mob.TagParticleType, p.Type)
	n += w.FloatRecord(mob.TagParticleScale, p.Scale)
	n += w.StringRecord(mob.TagParticleComments, p.Comments)
	return n
}

// Object represents any object placed on a map. Exactly one of the variant
// pointers is set, matching Kind.
type Object struct {
	Kind     ObjectKind
	World    *WorldObject // Set if Kind == ObjectWorld
	Unit     *Unit        // Set if Kind == ObjectUnit
	Lever    *Lever       // Set if Kind == ObjectLever
	Torch    *Torch       // Set if Kind == ObjectTorch
	Trap     *MagicTrap   // Set if Kind == ObjectMagicTrap
	Light    *Light       // Set if Kind == ObjectLight
	Sound    *Sound       // Set if Kind == ObjectSound
	Particle *Particle    // Set if Kind == ObjectParticle
}

// NewObject returns an object of kind with the editor's defaults.
func NewObject(kind ObjectKind) (Object, error) {
	info, ok := kindInfo(kind)
	if !ok {
		return Object{}, fmt.Errorf("%w: %d", ErrUnknownObjectKind, int(kind))
	}
	return info.new(), nil
}

// record returns the variant matching Kind, or nil.
func (o Object) record() mob.Record {
	switch o.Kind {
	case ObjectWorld:
		if o.World != nil {
			return o.World
		}
	case ObjectUnit:
		if o.Unit != nil {
			return o.Unit
		}
	case ObjectLever:
		if o.Lever != nil {
			return o.Lever
		}
	case ObjectTorch:
		if o.Torch != nil {
			return o.Torch
		}
	case ObjectMagicTrap:
		if o.Trap != nil {
			return o.Trap
		}
	case ObjectLight:
		if o.Light != nil {
			return o.Light
		}
	case ObjectSound:
		if o.Sound != nil {
			return o.Sound
		}
	case ObjectParticle:
		if o.Particle != nil {
			return o.Particle
		}
	}
	return nil
}

// Base returns the shared world object fields, or nil for lights, sounds and
// particles.
func (o Object) Base() *WorldObject {
	switch o.Kind {
	case ObjectWorld:
		return o.World
	case ObjectUnit:
		if o.Unit != nil {
			return &o.Unit.WorldObject
		}
	case ObjectLever:
		if o.Lever != nil {
			return &o.Lever.WorldObject
		}
	case ObjectTorch:
		if o.Torch != nil {
			return &o.Torch.WorldObject
		}
	case ObjectMagicTrap:
		if o.Trap != nil {
			return &o.Trap.WorldObject
		}
	}
	return nil
}

// MapID returns the object's map-wide identifier.
func (o Object) MapID() uint32 {
	if b := o.Base(); b != nil {
		return b.MapID
	}
	switch {
	case o.Kind == ObjectLight && o.Light != nil:
		return o.Light.ID
	case o.Kind == ObjectSound && o.Sound != nil:
		return o.Sound.ID
	case o.Kind == ObjectParticle && o.Particle != nil:
		return o.Particle.ID
	}
	return 0
}

// SetMapID changes the object's map-wide identifier.
func (o Object) SetMapID(id uint32) {
	if b := o.Base(); b != nil {
		b.MapID = id
		return
	}
	switch {
	case o.Kind == ObjectLight && o.Light != nil:
		o.Light.ID = id
	case o.Kind == ObjectSound && o.Sound != nil:
		o.Sound.ID = id
	case o.Kind == ObjectParticle && o.Particle != nil:
		o.Particle.ID = id
	}
}

// Name returns the object's display name.
func (o Object) Name() string {
	if b := o.Base(); b != nil {
		return b.Name
	}
	switch {
	case o.Kind == ObjectLight && o.Light != nil:
		return o.Light.Name
	case o.Kind == ObjectSound && o.Sound != nil:
		return o.Sound.Name
	case o.Kind == ObjectParticle && o.Particle != nil:
		return o.Particle.Name
	}
	return ""
}

// Position returns the object's world position.
func (o Object) Position() math.Vec3 {
	if b := o.Base(); b != nil {
		return b.Position
	}
	switch {
	case o.Kind == ObjectLight && o.Light != nil:
		return o.Light.Position
	case o.Kind == ObjectSound && o.Sound != nil:
		return o.Sound.Position
	case o.Kind == ObjectParticle && o.Particle != nil:
		return o.Particle.Position
	}
	return math.Vec3{}
}

// Validate checks that exactly the variant named by Kind is set.
func (o Object) Validate() error {
	if _, ok := kindInfo(o.Kind); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownObjectKind, int(o.Kind))
	}
	set := 0
	for _, p := range []bool{
		o.World != nil, o.Unit != nil, o.Lever != nil, o.Torch != nil,
		o.Trap != nil, o.Light != nil, o.Sound != nil, o.Particle != nil,
	} {
		if p {
			set++
		}
	}
	if set != 1 || o.record() == nil {
		return fmt.Errorf("%w: %s object must carry exactly its own variant", ErrInvalidObject, o.Kind)
	}
	return nil
}

// parseObjects reads the children of OBJECT_SECTION into dst.
func parseObjects(dst *[]Object) mob.ParseFunc {
	d := mob.DispatchFunc(func(tag mob.Tag) (mob.ParseFunc, bool) {
		info, ok := kindInfoByTag(tag)
		if !ok {
			return nil, false
		}
		return func(r *mob.Reader, _ mob.Header) (int, error) {
			obj := info.new()
			n, err := obj.record().ParseRecords(r)
			if err != nil {
				return n, err
			}
			*dst = append(*dst, obj)
			return n, nil
		}, true
	})
	return func(r *mob.Reader, _ mob.Header) (int, error) {
		return d.Run(r)
	}
}

func emitObject(w *mob.Writer, o Object) int {
	return mob.WriteRecord(w, o.Kind.Tag(), o.record())
}
