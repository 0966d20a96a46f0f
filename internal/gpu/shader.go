package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// CompileShaderToSPIRV compiles WGSL source to a SPIR-V uint32 slice for
// HAL drivers that do not consume WGSL directly. It doubles as shader
// validation: naga rejects malformed WGSL at this point rather than deep
// inside a driver.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return spirvCode, nil
}

// createShaderModule creates a HAL shader module from WGSL, falling back to
// a naga-compiled SPIR-V module when the device rejects WGSL source.
func createShaderModule(device hal.Device, label, wgslSource string) (hal.ShaderModule, error) {
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: wgslSource},
	})
	if err == nil {
		return module, nil
	}

	spirv, cerr := CompileShaderToSPIRV(wgslSource)
	if cerr != nil {
		return nil, fmt.Errorf("compile %s: %w (wgsl path: %w)", label, cerr, err)
	}
	module, serr := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if serr != nil {
		return nil, fmt.Errorf("create %s from SPIR-V: %w", label, serr)
	}
	return module, nil
}
