// Package all registers every gd backend.
//
//	import _ "github.com/NuttawutSanuk/gd/backend/all"
package all

import (
	_ "github.com/NuttawutSanuk/gd/backend/d3d11"
	_ "github.com/NuttawutSanuk/gd/backend/d3d9"
	_ "github.com/NuttawutSanuk/gd/backend/vulkan"
	_ "github.com/NuttawutSanuk/gd/backend/webgpu"
)
