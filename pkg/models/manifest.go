package models

// Manifest is the typed description of AndroidManifest.xml.
// The component lists and the sdk/permission fields are populated only when
// extended processing is enabled; they are omitted from reports otherwise.
type Manifest struct {
	File
	Package     string     `json:"package"`
	Version     Version    `json:"version"`
	SDK         *SDK       `json:"sdk,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	Activities  []Activity `json:"activities,omitempty"`
	Services    []Service  `json:"services,omitempty"`
	Receivers   []Receiver `json:"receivers,omitempty"`
}

// Version holds android:versionCode / android:versionName. Code is absent
// when the declared value does not parse as an integer.
type Version struct {
	Code *int64 `json:"code,omitempty"`
	Name string `json:"name"`
}

// SDK holds the uses-sdk range. Min defaults to "1", Target to Min.
type SDK struct {
	Min    string `json:"min"`
	Target string `json:"target"`
	Max    string `json:"max,omitempty"`
}

// Activity is a declared activity with its typed attributes.
type Activity struct {
	Name               string         `json:"name"`
	ParentActivityName string         `json:"parentActivityName,omitempty"`
	LaunchMode         string         `json:"launchMode,omitempty"`
	NoHistory          *bool          `json:"noHistory,omitempty"`
	MetaData           []MetaData     `json:"meta-data,omitempty"`
	IntentFilters      []IntentFilter `json:"intent-filter,omitempty"`
}

// Service is a declared service with its typed attributes.
type Service struct {
	Name            string         `json:"name"`
	Enabled         *bool          `json:"enabled,omitempty"`
	Exported        *bool          `json:"exported,omitempty"`
	IsolatedProcess *bool          `json:"isolatedProcess,omitempty"`
	Process         string         `json:"process,omitempty"`
	MetaData        []MetaData     `json:"meta-data,omitempty"`
	IntentFilters   []IntentFilter `json:"intent-filter,omitempty"`
}

// Receiver is a declared broadcast receiver with its typed attributes.
type Receiver struct {
	Name          string         `json:"name"`
	Enabled       *bool          `json:"enabled,omitempty"`
	Exported      *bool          `json:"exported,omitempty"`
	MetaData      []MetaData     `json:"meta-data,omitempty"`
	IntentFilters []IntentFilter `json:"intent-filter,omitempty"`
}

// MetaData is a meta-data child element.
type MetaData struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// IntentFilter describes which implicit dispatches a component answers.
type IntentFilter struct {
	Priority   string       `json:"priority,omitempty"`
	Actions    []string     `json:"action,omitempty"`
	Categories []string     `json:"category,omitempty"`
	Data       []IntentData `json:"data,omitempty"`
}

// IntentData is a data child of an intent-filter.
type IntentData struct {
	Scheme   string `json:"scheme,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}
