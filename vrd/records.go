package vrd

// recordWriter lays out every record kind on top of an Encoder.
// Callers resolve entity ids; the writer only encodes.
type recordWriter struct {
	enc *Encoder
}

func (w recordWriter) header() {
	w.enc.Varint(uint32(BlockReplayHeader))
}

func (w recordWriter) entityHeader(bt BlockType, id, frame uint32) {
	w.enc.Varint(uint32(bt))
	w.enc.Varint(frame)
	w.enc.Varint(id)
}

// frameStep has no entity header and no frame number; readers count steps.
func (w recordWriter) frameStep(totalTime float32) {
	w.enc.Varint(uint32(BlockFrameStep))
	w.enc.Float32(totalTime)
}

func (w recordWriter) entityDef(id, frame uint32, name, path, typeName, category string, xform *Transform, params []StringPair) {
	w.entityHeader(BlockEntityDef, id, frame)
	w.enc.Varint(id)
	w.enc.String(name)
	w.enc.String(path)
	w.enc.String(typeName)
	w.enc.String(category)
	w.enc.Transform(xform)
	w.enc.Varint(uint32(len(params)))
	for _, p := range params {
		w.enc.String(p.Key)
		w.enc.String(p.Value)
	}
	w.enc.Varint(frame)
}

func (w recordWriter) entityUndef(id, frame uint32) {
	w.entityHeader(BlockEntityUndef, id, frame)
}

func (w recordWriter) setPos(id, frame uint32, pos *Point) {
	w.entityHeader(BlockEntitySetPos, id, frame)
	w.enc.Point(pos)
}

func (w recordWriter) setTransform(id, frame uint32, xform *Transform) {
	w.entityHeader(BlockEntitySetTransform, id, frame)
	w.enc.Transform(xform)
}

func (w recordWriter) log(id, frame uint32, text, category string, color Color) {
	w.entityHeader(BlockEntityLog, id, frame)
	w.enc.String(category)
	w.enc.String(text)
	w.enc.Color(color)
}

func (w recordWriter) paramString(id, frame uint32, key, value string) {
	w.entityHeader(BlockEntityParameter, id, frame)
	w.enc.String(key)
	w.enc.String(value)
}

func (w recordWriter) paramFloat(id, frame uint32, key string, value float32) {
	w.entityHeader(BlockEntityValue, id, frame)
	w.enc.String(key)
	w.enc.Float32(value)
}

func (w recordWriter) sphere(id, frame uint32, category string, center *Point, radius float32, color Color) {
	w.entityHeader(BlockEntitySphere, id, frame)
	w.enc.String(category)
	w.enc.Point(center)
	w.enc.Float32(radius)
	w.enc.Color(color)
}

func (w recordWriter) box(id, frame uint32, category string, xform *Transform, dims *Point, color Color) {
	w.entityHeader(BlockEntityBox, id, frame)
	w.enc.String(category)
	w.enc.Transform(xform)
	w.enc.Point(dims)
	w.enc.Color(color)
}

func (w recordWriter) capsule(id, frame uint32, category string, p1, p2 *Point, radius float32, color Color) {
	w.entityHeader(BlockEntityCapsule, id, frame)
	w.enc.String(category)
	w.enc.Point(p1)
	w.enc.Point(p2)
	w.enc.Float32(radius)
	w.enc.Color(color)
}

// mesh writes the vertex count as a fixed 4-byte integer, not a varint.
func (w recordWriter) mesh(id, frame uint32, category string, verts []Point, color Color) {
	w.entityHeader(BlockEntityMesh, id, frame)
	w.enc.String(category)
	w.enc.Int32(int32(len(verts)))
	for i := range verts {
		w.enc.Point(&verts[i])
	}
	w.enc.Color(color)
}

func (w recordWriter) line(id, frame uint32, category string, p1, p2 *Point, color Color) {
	w.entityHeader(BlockEntityLine, id, frame)
	w.enc.String(category)
	w.enc.Point(p1)
	w.enc.Point(p2)
	w.enc.Color(color)
}

func (w recordWriter) circle(id, frame uint32, category string, pos, up *Point, radius float32, color Color) {
	w.entityHeader(BlockEntityCircle, id, frame)
	w.enc.String(category)
	w.enc.Point(pos)
	w.enc.Point(up)
	w.enc.Float32(radius)
	w.enc.Color(color)
}
