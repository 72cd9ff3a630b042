package audit

// Status classifies a single reference.
type Status string

const (
	// StatusResolved means the name is a registry key with a file on disk.
	StatusResolved Status = "resolved"
	// StatusUnresolved means the name is not a registry key.
	StatusUnresolved Status = "unresolved"
	// StatusBroken means the name is a registry key whose file is missing.
	StatusBroken Status = "broken"
)

// Reference is one template reference found while scanning.
type Reference struct {
	// Name is the normalized logical template name.
	Name string `json:"name"`
	// Raw is the token as written in the scanned file.
	Raw string `json:"raw"`
	// From is the path of the file the token was found in.
	From string `json:"from"`
	// Hop is 0 for source files, 1 for templates reached from sources, and so on.
	Hop int `json:"hop"`
	// Path is the registry path for resolved references.
	Path string `json:"path,omitempty"`
	// Status is the outcome of the registry lookup.
	Status Status `json:"status"`
}

// Result is the outcome of a reconciliation.
// Every list is in order of first discovery.
type Result struct {
	// Orphans are discovered template files never reached.
	Orphans []string `json:"orphans"`
	// Invalid are distinct normalized names absent from the registry.
	Invalid []string `json:"invalid"`
	// Broken are distinct registry names whose file could not be resolved.
	Broken []string `json:"broken,omitempty"`
	// Unreadable are reached template files that could not be read.
	Unreadable []string `json:"unreadable,omitempty"`
	// Reached are the distinct template files reached.
	Reached []string `json:"reached"`
	// Consumed counts resolved references, duplicates included.
	Consumed int `json:"consumed"`
	// References lists every reference seen, in scan order.
	References []Reference `json:"references,omitempty"`
}

// Clean reports whether no orphan was found.
func (r Result) Clean() bool {
	return len(r.Orphans) == 0
}

// FindingKind names a kind of finding.
type FindingKind string

const (
	// OrphanTemplate is a template file no reference reaches.
	OrphanTemplate FindingKind = "orphan-template"
	// ReferenceUnresolved is a reference to a name missing from the registry.
	ReferenceUnresolved FindingKind = "reference-unresolved"
	// RegistryEntryBroken is a registry entry pointing at a missing file.
	RegistryEntryBroken FindingKind = "registry-entry-broken"
)

// Finding is one reportable discrepancy.
type Finding struct {
	Kind    FindingKind `json:"kind"`
	Subject string      `json:"subject"`
}

// Findings flattens the result into orphans, then unresolved references,
// then broken registry entries.
func (r Result) Findings() []Finding {
	findings := make([]Finding, 0, len(r.Orphans)+len(r.Invalid)+len(r.Broken))
	for _, o := range r.Orphans {
		findings = append(findings, Finding{Kind: OrphanTemplate, Subject: o})
	}
	for _, n := range r.Invalid {
		findings = append(findings, Finding{Kind: ReferenceUnresolved, Subject: n})
	}
	for _, n := range r.Broken {
		findings = append(findings, Finding{Kind: RegistryEntryBroken, Subject: n})
	}
	return findings
}

// Report is the result of auditing one project.
type Report struct {
	// Root is the audited project directory.
	Root string `json:"root"`
	// Registry is the registry artifact that was loaded.
	Registry string `json:"registry"`
	// RegistrySize is the number of registry entries.
	RegistrySize int `json:"registrySize"`
	// TemplateRoots are the template directories that were scanned.
	TemplateRoots []string `json:"templateRoots"`
	// SourceRoot is the scanned source directory.
	SourceRoot string `json:"sourceRoot"`
	// Templates is the number of template files discovered.
	Templates int `json:"templates"`
	// Sources is the number of files scanned for references.
	Sources int `json:"sources"`
	// Depth is the indirection depth used (-1 for unlimited).
	Depth int `json:"depth"`

	Result
	Issues []Finding `json:"findings"`
}
