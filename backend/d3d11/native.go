package d3d11

import "github.com/NuttawutSanuk/gd"

// Usage is D3D11_USAGE.
type Usage uint32

const (
	UsageDefault   Usage = 0
	UsageImmutable Usage = 1
	UsageDynamic   Usage = 2
	UsageStaging   Usage = 3
)

// CPUAccess is D3D11_CPU_ACCESS_FLAG.
type CPUAccess uint32

const (
	CPUAccessWrite CPUAccess = 0x10000
	CPUAccessRead  CPUAccess = 0x20000
)

// BindFlag is D3D11_BIND_FLAG.
type BindFlag uint32

const (
	BindVertexBuffer    BindFlag = 0x1
	BindIndexBuffer     BindFlag = 0x2
	BindConstantBuffer  BindFlag = 0x4
	BindShaderResource  BindFlag = 0x8
	BindUnorderedAccess BindFlag = 0x80
)

// MapType is D3D11_MAP.
type MapType uint32

const (
	MapRead         MapType = 1
	MapWrite        MapType = 2
	MapReadWrite    MapType = 3
	MapWriteDiscard MapType = 4
)

// TextureDesc has the memory layout of D3D11_TEXTURE2D_DESC.
type TextureDesc struct {
	Width         uint32
	Height        uint32
	MipLevels     uint32
	ArraySize     uint32
	Format        Format
	SampleCount   uint32
	SampleQuality uint32
	Usage         Usage
	BindFlags     BindFlag
	CPUAccess     CPUAccess
	MiscFlags     uint32
}

// BufferDesc has the memory layout of D3D11_BUFFER_DESC.
type BufferDesc struct {
	ByteWidth           uint32
	Usage               Usage
	BindFlags           BindFlag
	CPUAccess           CPUAccess
	MiscFlags           uint32
	StructureByteStride uint32
}

// Box has the memory layout of D3D11_BOX. Right, Bottom and Back are
// exclusive.
type Box struct {
	Left, Top, Front, Right, Bottom, Back uint32
}

// Mapped is a mapped subresource. Data covers RowPitch bytes for every row
// of a texture, or the whole of a buffer.
type Mapped struct {
	Data     []byte
	RowPitch int
}

// Resource is any native resource that can be copied, mapped or released.
type Resource interface {
	Release()
}

// Texture2D is an ID3D11Texture2D.
type Texture2D interface {
	Resource
	Desc() TextureDesc
}

// Buffer is an ID3D11Buffer.
type Buffer interface {
	Resource
	Desc() BufferDesc
}

// Query is an ID3D11Query created with D3D11_QUERY_EVENT.
type Query interface {
	Resource
}

// Device is the subset of ID3D11Device the adapter uses.
//
// OpenTexture and OpenBuffer wrap host-owned handles without taking a
// reference; the adapter never releases what they return.
type Device interface {
	CreateTexture2D(desc *TextureDesc) (Texture2D, error)
	CreateBuffer(desc *BufferDesc) (Buffer, error)
	CreateEventQuery() (Query, error)
	ImmediateContext() (Context, error)
	OpenTexture(h gd.TextureHandle) (Texture2D, error)
	OpenBuffer(h gd.BufferHandle) (Buffer, error)
	// Pointer returns the raw ID3D11Device pointer, or 0.
	Pointer() uintptr
}

// Context is the subset of ID3D11DeviceContext the adapter uses.
type Context interface {
	Map(r Resource, mt MapType) (Mapped, error)
	Unmap(r Resource)
	CopyResource(dst, src Resource)
	CopySubresourceRegion(dst Resource, dstX uint32, src Resource, box *Box)
	// UpdateSubresource writes data into dst. A nil box means the whole
	// resource. rowPitch is ignored for buffers.
	UpdateSubresource(dst Resource, box *Box, data []byte, rowPitch int)
	End(q Query)
	// GetData reports whether the query has completed.
	GetData(q Query) (bool, error)
	Release()
}
