package rpc

// Document describes an OpenRPC-shaped self-description of the
// dispatcher's fixed method set, suitable for serving over a
// "describe" call or froyoctl's describe subcommand. The shapes here
// mirror the OpenRPC spec's Info/Method/ContentDescriptor objects
// closely enough for generic tooling to consume, without pulling in
// an OpenRPC library.
type Document struct {
	OpenRPC string   `json:"openrpc"`
	Info    Info     `json:"info"`
	Methods []Method `json:"methods"`
}

// Info describes the document's subject.
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Method describes one dispatcher-routable RPC method.
type Method struct {
	Name    string              `json:"name"`
	Summary string              `json:"summary"`
	Params  []ContentDescriptor `json:"params"`
	Result  ContentDescriptor   `json:"result"`
}

// ContentDescriptor names and describes a single param or result.
type ContentDescriptor struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

// NewDocument builds the OpenRPC document for the fixed six-method
// dispatcher contract, stamped with the given provider name/version.
func NewDocument(providerName, providerVersion string) *Document {
	return &Document{
		OpenRPC: "1.2.6",
		Info:    Info{Title: providerName, Version: providerVersion},
		Methods: []Method{
			{
				Name:    "metadata",
				Summary: "Returns static provider identity.",
				Params:  nil,
				Result:  ContentDescriptor{Name: "metadata", Schema: "#/components/schemas/Metadata"},
			},
			{
				Name:    "capabilities",
				Summary: "Returns the resource types and optional capabilities this provider supports.",
				Params:  nil,
				Result:  ContentDescriptor{Name: "capabilities", Schema: "#/components/schemas/Capabilities"},
			},
			{
				Name:    "plan",
				Summary: "Computes the changes needed to reconcile desired state against current state.",
				Params: []ContentDescriptor{
					{Name: "workspace_path", Schema: "string"},
					{Name: "desired_state", Schema: "#/components/schemas/Resource[]"},
					{Name: "current_state", Schema: "#/components/schemas/Resource[]"},
				},
				Result: ContentDescriptor{Name: "changes", Schema: "#/components/schemas/Change[]"},
			},
			{
				Name:    "apply",
				Summary: "Executes a set of changes, reporting per-address success or failure.",
				Params: []ContentDescriptor{
					{Name: "changes", Schema: "#/components/schemas/Change[]"},
				},
				Result: ContentDescriptor{Name: "apply_result", Schema: "#/components/schemas/ApplyResponse"},
			},
			{
				Name:    "validate",
				Summary: "Validates a set of resources without planning or applying them.",
				Params: []ContentDescriptor{
					{Name: "resources", Schema: "#/components/schemas/Resource[]"},
				},
				Result: ContentDescriptor{Name: "validate_result", Schema: "#/components/schemas/ValidateResponse"},
			},
			{
				Name:    "import",
				Summary: "Imports an existing external object into a managed resource.",
				Params: []ContentDescriptor{
					{Name: "address", Schema: "#/components/schemas/ResourceAddress"},
					{Name: "id", Schema: "string"},
				},
				Result: ContentDescriptor{Name: "resource", Schema: "#/components/schemas/Resource"},
			},
		},
	}
}
