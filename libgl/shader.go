package libgl

import (
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var shaderMetaPattern = regexp.MustCompile(`(?m)^\/\/meta:(\w+)(.+)$`)
var shaderDefinePattern = regexp.MustCompile(`(?m)^\s*(\/\/)?\s*#define ([\w\d]+) ?(.*)$`)
var shaderVersionPattern = regexp.MustCompile(`(?m)^\s*#version.+$`)

type shaderPipeline struct {
	glId      uint32
	vertStage ShaderProgram
	fragStage ShaderProgram
}

type UnboundShaderPipeline interface {
	LabeledGlObject
	Bind() BoundShaderPipeline
	Attach(program ShaderProgram, stages int)
	Get(stage int) ShaderProgram
	Id() uint32
	Delete()
}

type BoundShaderPipeline interface {
	UnboundShaderPipeline
}

func NewPipeline() UnboundShaderPipeline {
	var id uint32
	gl.CreateProgramPipelines(1, &id)
	return &shaderPipeline{
		glId: id,
	}
}

func (pipeline *shaderPipeline) SetDebugLabel(label string) {
	setObjectLabel(gl.PROGRAM_PIPELINE, pipeline.glId, label)
}

func (pipeline *shaderPipeline) Attach(program ShaderProgram, stages int) {
	if stages&^(gl.VERTEX_SHADER_BIT|gl.FRAGMENT_SHADER_BIT) != 0 {
		log.Panicf("unsupported pipeline stages %x", stages)
	}
	gl.UseProgramStages(pipeline.glId, uint32(stages), program.Id())
	if stages&gl.VERTEX_SHADER_BIT != 0 {
		pipeline.vertStage = program
	}
	if stages&gl.FRAGMENT_SHADER_BIT != 0 {
		pipeline.fragStage = program
	}
}

func (pipeline *shaderPipeline) Get(stage int) ShaderProgram {
	switch stage {
	case gl.VERTEX_SHADER:
		return pipeline.vertStage
	case gl.FRAGMENT_SHADER:
		return pipeline.fragStage
	}
	log.Panicf("%d is not a valid shader stage\n", stage)
	return nil
}

func (pipeline *shaderPipeline) Bind() BoundShaderPipeline {
	GlState.BindProgramPipeline(pipeline.glId)
	return BoundShaderPipeline(pipeline)
}

func (pipeline *shaderPipeline) Id() uint32 {
	return pipeline.glId
}

// Delete releases the pipeline object only, the attached programs are owned by the caller.
func (pipeline *shaderPipeline) Delete() {
	if GlState.ProgramPipeline == pipeline.glId {
		GlState.BindProgramPipeline(0)
	}
	gl.DeleteProgramPipelines(1, &pipeline.glId)
	pipeline.glId = 0
	pipeline.vertStage = nil
	pipeline.fragStage = nil
}

type shaderCacheManager struct {
	Dir      string
	Disabled bool
	MaxAge   time.Duration
}

// ShaderCache stores linked program binaries keyed by source and driver.
var ShaderCache = &shaderCacheManager{
	Dir:    ".shadercache",
	MaxAge: 30 * 24 * time.Hour,
}

// ShaderCacheKey hashes the final shader source together with the driver identification.
func ShaderCacheKey(source, vendor, renderer, version string) string {
	hasher := md5.New()
	hasher.Write([]byte(source))
	hasher.Write([]byte(vendor))
	hasher.Write([]byte(renderer))
	hasher.Write([]byte(version))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (cache *shaderCacheManager) key(source string) string {
	return ShaderCacheKey(source,
		gl.GoStr(gl.GetString(gl.VENDOR)),
		gl.GoStr(gl.GetString(gl.RENDERER)),
		gl.GoStr(gl.GetString(gl.VERSION)))
}

func (cache *shaderCacheManager) Put(source string, program ShaderProgram) {
	if cache.Disabled {
		return
	}
	err := os.MkdirAll(cache.Dir, 0755)
	if err != nil {
		log.Printf("Could not create shader cache directory: %v\n", err)
		return
	}
	file, err := os.OpenFile(path.Join(cache.Dir, cache.key(source)+".bin"), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Could not write shader cache: %v\n", err)
		return
	}
	defer file.Close()
	var length int32
	gl.GetProgramiv(program.Id(), gl.PROGRAM_BINARY_LENGTH, &length)
	if length == 0 {
		return
	}
	buf := make([]byte, length)
	var format uint32
	gl.GetProgramBinary(program.Id(), length, &length, &format, Pointer(buf))
	buf = buf[:length]
	if err := binary.Write(file, binary.LittleEndian, format); err != nil {
		log.Printf("Could not write shader cache: %v\n", err)
		return
	}
	if _, err := file.Write(buf); err != nil {
		log.Printf("Could not write shader cache: %v\n", err)
	}
}

func (cache *shaderCacheManager) Get(source string) (ok bool, buf []byte, format uint32) {
	var (
		err        error
		shaderPath string
		shaderFile *os.File
		info       os.FileInfo
	)
	if cache.Disabled {
		return
	}
	defer func() {
		if err != nil {
			log.Printf("Could not read shader cache: %v\n", err)
		}
	}()
	shaderPath = path.Join(cache.Dir, cache.key(source)+".bin")
	info, err = os.Stat(shaderPath)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
		return
	}
	if err != nil {
		return
	}
	// a driver update might produce different code
	if time.Since(info.ModTime()) > cache.MaxAge {
		os.Remove(shaderPath)
		return
	}
	shaderFile, err = os.Open(shaderPath)
	if err != nil {
		return
	}
	defer shaderFile.Close()
	if err = binary.Read(shaderFile, binary.LittleEndian, &format); err != nil {
		return
	}
	buf, err = io.ReadAll(shaderFile)
	if err != nil {
		return
	}
	return true, buf, format
}

type glslDef struct {
	marker  string
	name    string
	value   string
	boolean bool
}

// ShaderTemplate is GLSL source with its #define lines replaced by markers,
// so that the values can be substituted before every compile.
type ShaderTemplate struct {
	Name        string
	definitions map[string]glslDef
	versionEnd  int
	source      string
}

// ParseShaderTemplate reads the //meta:name comment and the #define lines of source.
// A commented out boolean define (// #define X) is treated as X = false.
func ParseShaderTemplate(source string) *ShaderTemplate {
	name := "untitled"
	for _, match := range shaderMetaPattern.FindAllStringSubmatch(source, -1) {
		key, value := match[1], strings.TrimSpace(match[2])
		if strings.EqualFold(key, "name") {
			name = value
		}
	}

	defineMatches := shaderDefinePattern.FindAllStringSubmatch(source, -1)
	definitions := make(map[string]glslDef, len(defineMatches))
	defineMarkers := make(map[string]string, len(defineMatches))
	for i, match := range defineMatches {
		value := strings.TrimSpace(match[3])
		marker := fmt.Sprintf("$def_%v$", i)
		boolean := value == ""
		if boolean && match[1] == "//" {
			value = "false"
		}
		definitions[strings.ToLower(match[2])] = glslDef{
			marker:  marker,
			name:    match[2],
			value:   value,
			boolean: boolean,
		}
		defineMarkers[match[0]] = marker
	}
	source = shaderDefinePattern.ReplaceAllStringFunc(source, func(s string) string {
		return defineMarkers[s]
	})

	versionEnd := 0
	if loc := shaderVersionPattern.FindStringIndex(source); loc != nil {
		versionEnd = loc[1]
	}

	return &ShaderTemplate{
		Name:        name,
		definitions: definitions,
		versionEnd:  versionEnd,
		source:      source,
	}
}

// Expand produces compilable source. Known defines are overridden in place,
// unknown ones are inserted after the #version line in name order.
func (tmpl *ShaderTemplate) Expand(defs map[string]string) string {
	source := tmpl.source
	used := map[string]bool{}

	var injected []string
	names := maps.Keys(defs)
	slices.Sort(names)
	for _, n := range names {
		k := strings.ToLower(n)
		if def, ok := tmpl.definitions[k]; ok {
			used[k] = true
			source = strings.Replace(source, def.marker, def.line(defs[n]), 1)
		} else {
			injected = append(injected, fmt.Sprintf("\n#define %v %v", n, defs[n]))
		}
	}

	for k, def := range tmpl.definitions {
		if used[k] {
			continue
		}
		source = strings.Replace(source, def.marker, def.line(def.value), 1)
	}

	if len(injected) > 0 {
		source = source[:tmpl.versionEnd] + strings.Join(injected, "") + source[tmpl.versionEnd:]
	}
	return source
}

func (def glslDef) line(value string) string {
	if !def.boolean {
		return fmt.Sprintf("#define %v %v", def.name, value)
	}
	if value == "false" {
		return fmt.Sprintf("// #define %v", def.name)
	}
	return fmt.Sprintf("#define %v", def.name)
}

type program struct {
	uniformLocations map[string]int32
	uniformValues    map[string]any
	template         *ShaderTemplate
	glId             uint32
	sourceLive       string
	stage            int
}

type ShaderProgram interface {
	LabeledGlObject
	Id() uint32
	Name() string
	Compile() error
	CompileWith(defs map[string]string) error
	Destroy()
	GetUniformLocation(name string) int32
	SetUniform(name string, value any)
	UniformValue(name string) (any, bool)
	Source() string
}

func NewShader(source string, stage int) ShaderProgram {
	switch stage {
	case gl.VERTEX_SHADER, gl.FRAGMENT_SHADER:
	default:
		log.Panicf("%d is not a valid shader stage\n", stage)
	}
	return &program{
		template: ParseShaderTemplate(source),
		stage:    stage,
	}
}

func (prog *program) Name() string {
	return prog.template.Name
}

func (prog *program) SetDebugLabel(label string) {
	setObjectLabel(gl.PROGRAM, prog.glId, label)
}

func (prog *program) Compile() error {
	return prog.CompileWith(nil)
}

func (prog *program) CompileWith(defs map[string]string) error {
	source := prog.template.Expand(defs)

	cached := false
	var id uint32
	if ok, buf, format := ShaderCache.Get(source); ok {
		id = gl.CreateProgram()
		gl.ProgramParameteri(id, gl.PROGRAM_SEPARABLE, gl.TRUE)
		gl.ProgramBinary(id, format, Pointer(buf), int32(len(buf)))
		cached = true
	}
	if cached {
		var ok int32
		gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
		if ok == gl.FALSE {
			// stale binary, fall back to the source
			gl.DeleteProgram(id)
			cached = false
		}
	}
	if !cached {
		cStrs, free := gl.Strs(source + "\x00")
		id = gl.CreateShaderProgramv(uint32(prog.stage), 1, cStrs)
		free()
	}

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := readProgramInfoLog(id)
		gl.DeleteProgram(id)
		return fmt.Errorf("failed to link %v shader, log: %v", prog.Name(), msg)
	}

	if prog.glId != 0 {
		gl.DeleteProgram(prog.glId)
	}
	prog.glId = id
	prog.sourceLive = source
	prog.uniformLocations = map[string]int32{}
	prog.uniformValues = map[string]any{}

	if !cached {
		ShaderCache.Put(source, prog)
	}

	return nil
}

func (prog *program) Source() string {
	return prog.sourceLive
}

func (prog *program) Id() uint32 {
	return prog.glId
}

func (prog *program) Destroy() {
	gl.DeleteProgram(prog.glId)
	prog.glId = 0
}

func readProgramInfoLog(id uint32) string {
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)

	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (prog *program) GetUniformLocation(name string) int32 {
	if location, ok := prog.uniformLocations[name]; ok {
		return location
	}

	location := gl.GetUniformLocation(prog.glId, gl.Str(name+"\x00"))
	prog.uniformLocations[name] = location

	if location == -1 {
		log.Printf("%v shader: could not get location of %q\n", prog.Name(), name)
	}

	return location
}

func (prog *program) SetUniform(name string, value any) {
	location := prog.GetUniformLocation(name)
	if location == -1 {
		return
	}
	prog.uniformValues[name] = value
	setProgramUniformAny(prog.glId, location, value)
}

// UniformValue returns the last value uploaded through SetUniform.
func (prog *program) UniformValue(name string) (any, bool) {
	v, ok := prog.uniformValues[name]
	return v, ok
}

func setProgramUniformAny(prog uint32, location int32, value any) {
	for refVal := reflect.ValueOf(value); refVal.Kind() == reflect.Ptr; refVal = reflect.ValueOf(value) {
		value = refVal.Elem().Interface()
	}

	switch v := value.(type) {
	case float64:
		gl.ProgramUniform1d(prog, location, v)
	case float32:
		gl.ProgramUniform1f(prog, location, v)
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.ProgramUniform1i(prog, location, i)
	case int:
		gl.ProgramUniform1i(prog, location, int32(v))
	case int32:
		gl.ProgramUniform1i(prog, location, v)
	case uint:
		gl.ProgramUniform1ui(prog, location, uint32(v))
	case uint32:
		gl.ProgramUniform1ui(prog, location, v)
	case mgl32.Vec2:
		gl.ProgramUniform2f(prog, location, v.X(), v.Y())
	case mgl64.Vec2:
		gl.ProgramUniform2d(prog, location, v.X(), v.Y())
	case mgl32.Vec3:
		gl.ProgramUniform3f(prog, location, v.X(), v.Y(), v.Z())
	case mgl32.Vec4:
		gl.ProgramUniform4f(prog, location, v.X(), v.Y(), v.Z(), v.W())
	case mgl32.Mat3:
		gl.ProgramUniformMatrix3fv(prog, location, 1, false, &v[0])
	case mgl32.Mat4:
		gl.ProgramUniformMatrix4fv(prog, location, 1, false, &v[0])
	case mgl64.Mat4:
		gl.ProgramUniformMatrix4dv(prog, location, 1, false, &v[0])
	default:
		log.Panicf("Unsupported uniform type %v", reflect.TypeOf(value))
	}
}
