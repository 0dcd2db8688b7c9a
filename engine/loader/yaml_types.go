package loader

// rigDocument is the top-level YAML rig description. Bones must be listed parents first.
type rigDocument struct {
	Skeleton   skeletonDoc    `yaml:"skeleton"`
	Bones      []boneDoc      `yaml:"bones" validate:"required,min=1,dive"`
	Slots      []slotDoc      `yaml:"slots" validate:"dive"`
	IK         []ikDoc        `yaml:"ik" validate:"dive"`
	Transform  []transformDoc `yaml:"transform" validate:"dive"`
	Path       []pathDoc      `yaml:"path" validate:"dive"`
	Skins      []skinDoc      `yaml:"skins" validate:"dive"`
	Events     []eventDoc     `yaml:"events" validate:"dive"`
	Animations []animationDoc `yaml:"animations" validate:"dive"`
}

type skeletonDoc struct {
	Name    string  `yaml:"name"`
	Hash    string  `yaml:"hash"`
	Version string  `yaml:"version"`
	X       float32 `yaml:"x"`
	Y       float32 `yaml:"y"`
	Width   float32 `yaml:"width" validate:"gte=0"`
	Height  float32 `yaml:"height" validate:"gte=0"`
	FPS     float32 `yaml:"fps" validate:"gte=0"`
	Images  string  `yaml:"images"`
	Audio   string  `yaml:"audio"`
}

type boneDoc struct {
	Name         string   `yaml:"name" validate:"required"`
	Parent       string   `yaml:"parent"`
	Length       float32  `yaml:"length" validate:"gte=0"`
	X            float32  `yaml:"x"`
	Y            float32  `yaml:"y"`
	Rotation     float32  `yaml:"rotation"`
	ScaleX       *float32 `yaml:"scaleX"`
	ScaleY       *float32 `yaml:"scaleY"`
	ShearX       float32  `yaml:"shearX"`
	ShearY       float32  `yaml:"shearY"`
	Inherit      string   `yaml:"inherit" validate:"omitempty,oneof=normal onlyTranslation noRotationOrReflection noScale noScaleOrReflection"`
	SkinRequired bool     `yaml:"skin"`
	Color        string   `yaml:"color" validate:"omitempty,hexadecimal,len=8"`
}

type slotDoc struct {
	Name       string `yaml:"name" validate:"required"`
	Bone       string `yaml:"bone" validate:"required"`
	Color      string `yaml:"color" validate:"omitempty,hexadecimal,len=8"`
	Dark       string `yaml:"dark" validate:"omitempty,hexadecimal,len=6"`
	Attachment string `yaml:"attachment"`
	Blend      string `yaml:"blend" validate:"omitempty,oneof=normal additive multiply screen"`
}

// constraintDoc holds the fields shared by every constraint kind.
type constraintDoc struct {
	Name         string   `yaml:"name" validate:"required"`
	Order        int      `yaml:"order" validate:"gte=0"`
	SkinRequired bool     `yaml:"skin"`
	Bones        []string `yaml:"bones" validate:"required,min=1,dive,required"`
}

type ikDoc struct {
	constraintDoc `yaml:",inline"`
	Target        string   `yaml:"target" validate:"required"`
	Mix           *float32 `yaml:"mix" validate:"omitempty,gte=0,lte=1"`
	Softness      float32  `yaml:"softness" validate:"gte=0"`
	BendPositive  *bool    `yaml:"bendPositive"`
	Compress      bool     `yaml:"compress"`
	Stretch       bool     `yaml:"stretch"`
	Uniform       bool     `yaml:"uniform"`
}

type transformDoc struct {
	constraintDoc  `yaml:",inline"`
	Target         string   `yaml:"target" validate:"required"`
	RotateMix      *float32 `yaml:"rotateMix" validate:"omitempty,gte=0,lte=1"`
	TranslateMix   *float32 `yaml:"translateMix" validate:"omitempty,gte=0,lte=1"`
	ScaleMix       *float32 `yaml:"scaleMix" validate:"omitempty,gte=0,lte=1"`
	ShearMix       *float32 `yaml:"shearMix" validate:"omitempty,gte=0,lte=1"`
	OffsetRotation float32  `yaml:"rotation"`
	OffsetX        float32  `yaml:"x"`
	OffsetY        float32  `yaml:"y"`
	OffsetScaleX   float32  `yaml:"scaleX"`
	OffsetScaleY   float32  `yaml:"scaleY"`
	OffsetShearY   float32  `yaml:"shearY"`
	Relative       bool     `yaml:"relative"`
	Local          bool     `yaml:"local"`
}

type pathDoc struct {
	constraintDoc  `yaml:",inline"`
	Target         string   `yaml:"target" validate:"required"`
	PositionMode   string   `yaml:"positionMode" validate:"omitempty,oneof=fixed percent"`
	SpacingMode    string   `yaml:"spacingMode" validate:"omitempty,oneof=length fixed percent"`
	RotateMode     string   `yaml:"rotateMode" validate:"omitempty,oneof=tangent chain chainScale"`
	OffsetRotation float32  `yaml:"rotation"`
	Position       float32  `yaml:"position"`
	Spacing        float32  `yaml:"spacing"`
	RotateMix      *float32 `yaml:"rotateMix" validate:"omitempty,gte=0,lte=1"`
	TranslateMix   *float32 `yaml:"translateMix" validate:"omitempty,gte=0,lte=1"`
}

type skinDoc struct {
	Name      string   `yaml:"name" validate:"required"`
	Bones     []string `yaml:"bones" validate:"dive,required"`
	IK        []string `yaml:"ik" validate:"dive,required"`
	Transform []string `yaml:"transform" validate:"dive,required"`
	Path      []string `yaml:"path" validate:"dive,required"`
	// Attachments maps slot name to attachment key to attachment.
	Attachments map[string]map[string]attachmentDoc `yaml:"attachments" validate:"dive,dive"`
}

type attachmentDoc struct {
	// Name defaults to the attachment's key within the skin.
	Name  string `yaml:"name"`
	Type  string `yaml:"type" validate:"omitempty,oneof=region mesh linkedmesh boundingbox path point clipping"`
	Path  string `yaml:"path"`
	Color string `yaml:"color" validate:"omitempty,hexadecimal,len=8"`

	// region, point
	X        float32  `yaml:"x"`
	Y        float32  `yaml:"y"`
	Rotation float32  `yaml:"rotation"`
	ScaleX   *float32 `yaml:"scaleX"`
	ScaleY   *float32 `yaml:"scaleY"`

	// region, mesh
	Width  float32    `yaml:"width" validate:"gte=0"`
	Height float32    `yaml:"height" validate:"gte=0"`
	Region *regionDoc `yaml:"region"`

	// mesh, boundingbox, path, clipping. Vertices hold x,y pairs, or per vertex a bone count
	// followed by that many (bone index, x, y, weight) groups.
	Vertices    []float32 `yaml:"vertices"`
	VertexCount int       `yaml:"vertexCount" validate:"gte=0"`

	// mesh
	UVs       []float32 `yaml:"uvs"`
	Triangles []uint16  `yaml:"triangles"`
	Hull      int       `yaml:"hull" validate:"gte=0"`
	Edges     []int     `yaml:"edges"`

	// linkedmesh
	Parent string `yaml:"parent" validate:"required_if=Type linkedmesh"`
	Skin   string `yaml:"skin"`
	Deform *bool  `yaml:"deform"`

	// path
	Closed        bool      `yaml:"closed"`
	ConstantSpeed *bool     `yaml:"constantSpeed"`
	Lengths       []float32 `yaml:"lengths"`

	// clipping
	End string `yaml:"end"`
}

type regionDoc struct {
	U              float32 `yaml:"u"`
	V              float32 `yaml:"v"`
	U2             float32 `yaml:"u2"`
	V2             float32 `yaml:"v2"`
	Packed         bool    `yaml:"packed"`
	Degrees        int     `yaml:"degrees" validate:"oneof=0 90 180 270"`
	OffsetX        float32 `yaml:"offsetX"`
	OffsetY        float32 `yaml:"offsetY"`
	Width          float32 `yaml:"width" validate:"gte=0"`
	Height         float32 `yaml:"height" validate:"gte=0"`
	PackedWidth    float32 `yaml:"packedWidth" validate:"gte=0"`
	PackedHeight   float32 `yaml:"packedHeight" validate:"gte=0"`
	OriginalWidth  float32 `yaml:"originalWidth" validate:"gte=0"`
	OriginalHeight float32 `yaml:"originalHeight" validate:"gte=0"`
	TextureWidth   float32 `yaml:"textureWidth" validate:"gte=0"`
	TextureHeight  float32 `yaml:"textureHeight" validate:"gte=0"`
}

type eventDoc struct {
	Name    string   `yaml:"name" validate:"required"`
	Int     int      `yaml:"int"`
	Float   float32  `yaml:"float"`
	String  string   `yaml:"string"`
	Audio   string   `yaml:"audio"`
	Volume  *float32 `yaml:"volume" validate:"omitempty,gte=0"`
	Balance float32  `yaml:"balance" validate:"gte=-1,lte=1"`
}

type animationDoc struct {
	Name     string  `yaml:"name" validate:"required"`
	Duration float32 `yaml:"duration" validate:"gte=0"`
}
