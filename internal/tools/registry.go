package tools

import "sort"

// Spec describes a tool: what it does and its required parameters, in order.
type Spec struct {
	Name        Name
	Description string
	Params      []string
}

var registry = map[Name]Spec{
	Generate: {
		Name: Generate, Description: "Ask a prompt to the local LLM",
		Params: []string{"prompt"},
	},
	DownloadPDF: {
		Name: DownloadPDF, Description: "Search the web and download the first reachable PDF for a query",
		Params: []string{"query"},
	},
	GenerateCodeFile: {
		Name: GenerateCodeFile, Description: "Generate code and save it to a file",
		Params: []string{"language", "task"},
	},
	SummarizePDF: {
		Name: SummarizePDF, Description: "Summarize content from a PDF",
		Params: []string{"path"},
	},
	DetectIntent: {
		Name: DetectIntent, Description: "Determine the appropriate tool for a free-form task",
		Params: []string{"prompt"},
	},
	ListFiles: {
		Name: ListFiles, Description: "List files in the files folder",
	},
	ReadFile: {
		Name: ReadFile, Description: "Read a file",
		Params: []string{"path"},
	},
	WriteFile: {
		Name: WriteFile, Description: "Write content to a file",
		Params: []string{"path", "content"},
	},
	ModifyFile: {
		Name: ModifyFile, Description: "Replace the content of a file",
		Params: []string{"path", "content"},
	},
}

// Lookup resolves a raw tool name against the registry.
func Lookup(name string) (Spec, bool) {
	spec, ok := registry[Name(name)]
	if !ok {
		return Spec{}, false
	}
	spec.Params = append([]string(nil), spec.Params...)
	return spec, true
}

// Names returns every registered tool name in sorted order.
func Names() []Name {
	names := make([]Name, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Specs returns copies of every registry entry, sorted by name.
func Specs() []Spec {
	out := make([]Spec, 0, len(registry))
	for _, n := range Names() {
		spec, _ := Lookup(string(n))
		out = append(out, spec)
	}
	return out
}

// Bind picks the registry parameters out of raw arguments. Parameters the
// caller left out come back as "".
func (s Spec) Bind(raw map[string]string) Args {
	args := make(Args, len(s.Params))
	for _, p := range s.Params {
		args[p] = raw[p]
	}
	return args
}
