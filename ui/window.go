// Package ui is nestor's windowed front end: an SDL2/OpenGL window blitting
// the console's framebuffer through a textured quad, an SDL audio device
// draining StepFrame's resampled PCM, and keyboard input latched into
// console.ControllerState — the interactive counterpart to cmd/nestor's
// headless runner.
package ui

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

// Window owns the SDL window, GL context and the single texture the NES
// framebuffer is uploaded into every frame.
type Window struct {
	sdlWin  *sdl.Window
	glCtx   sdl.GLContext
	prog    uint32
	texture uint32
	vao     uint32
	texW    int32
	texH    int32
}

// NewWindow opens an SDL2/OpenGL window scale times the size of a
// texw x texh framebuffer, grounded on the teacher's hw/window.go
// newWindow: same GL 3.3 core context setup, same textured-quad shader
// pair, generalized to take the framebuffer size as a parameter instead
// of hardcoding the NES's 256x240.
func NewWindow(title string, texw, texh, scale int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_JOYSTICK); err != nil {
		return nil, fmt.Errorf("ui: sdl init: %w", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	sdlWin, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(texw*scale), int32(texh*scale),
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("ui: create window: %w", err)
	}

	glCtx, err := sdlWin.GLCreateContext()
	if err != nil {
		sdlWin.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("ui: create GL context: %w", err)
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("ui: init GL: %w", err)
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(texw), int32(texh), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	vert, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("ui: vertex shader: %w", err)
	}
	frag, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("ui: fragment shader: %w", err)
	}
	prog, err := linkProgram(vert, frag)
	if err != nil {
		return nil, fmt.Errorf("ui: link shaders: %w", err)
	}

	var vbo, vao, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(quadIndices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return &Window{
		sdlWin:  sdlWin,
		glCtx:   glCtx,
		prog:    prog,
		texture: texture,
		vao:     vao,
		texW:    int32(texw),
		texH:    int32(texh),
	}, nil
}

// Present uploads an RGBA framebuffer (as returned by console.Framebuffer)
// into the window's texture and redraws it.
func (w *Window) Present(rgba []byte) {
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w.texW, w.texH, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&rgba[0]))

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(w.prog)
	gl.BindVertexArray(w.vao)
	gl.DrawElements(gl.TRIANGLES, 6, gl.UNSIGNED_INT, nil)
	w.sdlWin.GLSwap()
}

// Close tears down the GL context, window and SDL subsystem.
func (w *Window) Close() {
	if w.glCtx != nil {
		sdl.GLDeleteContext(w.glCtx)
	}
	if w.sdlWin != nil {
		w.sdlWin.Destroy()
	}
	sdl.Quit()
}

var quadVertices = []float32{
	// x, y, z, s, t
	1.0, 1.0, 0, 1, 0,
	1.0, -1.0, 0, 1, 1,
	-1.0, -1.0, 0, 0, 1,
	-1.0, 1.0, 0, 0, 0,
}

var quadIndices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
out vec2 TexCoord;
void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
` + "\x00"

const fragmentShaderSource = `
#version 330 core
out vec4 FragColor;
in vec2 TexCoord;
uniform sampler2D ourTexture;
void main() {
    FragColor = texture(ourTexture, TexCoord);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(source)
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(sh, logLength, nil, &log[0])
		return 0, fmt.Errorf("%s", string(log))
	}
	return sh, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	prg := gl.CreateProgram()
	gl.AttachShader(prg, vertexShader)
	gl.AttachShader(prg, fragmentShader)
	gl.LinkProgram(prg)

	var status int32
	gl.GetProgramiv(prg, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		var glLog [256]byte
		gl.GetProgramInfoLog(prg, int32(len(glLog)), &logLength, &glLog[0])
		return 0, fmt.Errorf("%s", string(glLog[:logLength]))
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return prg, nil
}
