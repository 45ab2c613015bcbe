package log

import "github.com/miekg/dns"

// EventType represents the type of structured log event
type EventType string

const (
	EventTypeRecord   EventType = "record"
	EventTypeLookup   EventType = "lookup"
	EventTypeDatabase EventType = "database"
	EventTypeDNS      EventType = "dns"
)

// StructuredEvent represents structured log data
type StructuredEvent struct {
	Type EventType      `json:"type"`
	Data map[string]any `json:"data"`
}

// RecordEvent describes what happened to one route object during a table build
type RecordEvent struct {
	Action string `json:"action"` // "exported", "skipped"
	Class  string `json:"class,omitempty"`
	Prefix string `json:"prefix"`
	Origin string `json:"origin"`
	ASName string `json:"as_name,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// LookupEvent describes an address query against the ASN database
type LookupEvent struct {
	Source       string `json:"source"` // "http", "dns", "cli"
	Query        string `json:"query"`
	ASN          uint   `json:"asn,omitempty"`
	Organization string `json:"organization,omitempty"`
	Network      string `json:"network,omitempty"`
	Error        string `json:"error,omitempty"`
}

// DatabaseEvent describes a load, reload or download of the ASN database
type DatabaseEvent struct {
	Action       string `json:"action"` // "loaded", "unchanged", "rejected"
	Path         string `json:"path"`
	Checksum     string `json:"checksum,omitempty"`
	DatabaseType string `json:"database_type,omitempty"`
	Error        string `json:"error,omitempty"`
}

// DNSEvent represents a TXT query answered by the DNS service
type DNSEvent struct {
	Domain    string   `json:"domain"`
	QueryType string   `json:"query_type,omitempty"`
	Transport string   `json:"transport,omitempty"`
	Rcode     string   `json:"rcode,omitempty"`
	RcodeNum  int      `json:"rcode_num,omitempty"`
	Answers   []string `json:"answers,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func NewRecordEvent(action, prefix, origin string) *RecordEvent {
	return &RecordEvent{
		Action: action,
		Prefix: prefix,
		Origin: origin,
	}
}

func NewLookupEvent(source, query string) *LookupEvent {
	return &LookupEvent{
		Source: source,
		Query:  query,
	}
}

func NewDatabaseEvent(action, path string) *DatabaseEvent {
	return &DatabaseEvent{
		Action: action,
		Path:   path,
	}
}

func NewDNSEvent(domain string) *DNSEvent {
	return &DNSEvent{Domain: domain}
}

func (e *RecordEvent) WithClass(class string) *RecordEvent {
	e.Class = class
	return e
}

func (e *RecordEvent) WithASName(name string) *RecordEvent {
	e.ASName = name
	return e
}

// WithReason sets why the record was skipped
func (e *RecordEvent) WithReason(err error) *RecordEvent {
	if err != nil {
		e.Reason = err.Error()
	}
	return e
}

// WithResult sets the matched AS number, organization and network
func (e *LookupEvent) WithResult(asn uint, organization, network string) *LookupEvent {
	e.ASN = asn
	e.Organization = organization
	e.Network = network
	return e
}

func (e *LookupEvent) WithError(err error) *LookupEvent {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

func (e *DatabaseEvent) WithChecksum(checksum string) *DatabaseEvent {
	e.Checksum = checksum
	return e
}

func (e *DatabaseEvent) WithDatabaseType(databaseType string) *DatabaseEvent {
	e.DatabaseType = databaseType
	return e
}

func (e *DatabaseEvent) WithError(err error) *DatabaseEvent {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithQueryType sets the DNS query type
func (e *DNSEvent) WithQueryType(queryType uint16) *DNSEvent {
	e.QueryType = dns.Type(queryType).String()
	return e
}

// WithTransport sets the DNS transport
func (e *DNSEvent) WithTransport(transport string) *DNSEvent {
	if transport != "" {
		e.Transport = transport
	}
	return e
}

// WithResponse sets the response code and answers
func (e *DNSEvent) WithResponse(rcode int, answers []string) *DNSEvent {
	e.Rcode = dns.RcodeToString[rcode]
	e.RcodeNum = rcode
	if len(answers) > 0 {
		e.Answers = answers
	}
	return e
}

func (e *DNSEvent) WithError(err error) *DNSEvent {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// ToMap converts RecordEvent to map
func (e *RecordEvent) ToMap() map[string]any {
	m := make(map[string]any)
	m["action"] = e.Action
	m["prefix"] = e.Prefix
	m["origin"] = e.Origin
	if e.Class != "" {
		m["class"] = e.Class
	}
	if e.ASName != "" {
		m["as_name"] = e.ASName
	}
	if e.Reason != "" {
		m["reason"] = e.Reason
	}
	return m
}

// ToMap converts LookupEvent to map
func (e *LookupEvent) ToMap() map[string]any {
	m := make(map[string]any)
	m["source"] = e.Source
	m["query"] = e.Query
	if e.ASN != 0 {
		m["asn"] = e.ASN
	}
	if e.Organization != "" {
		m["organization"] = e.Organization
	}
	if e.Network != "" {
		m["network"] = e.Network
	}
	if e.Error != "" {
		m["error"] = e.Error
	}
	return m
}

// ToMap converts DatabaseEvent to map
func (e *DatabaseEvent) ToMap() map[string]any {
	m := make(map[string]any)
	m["action"] = e.Action
	m["path"] = e.Path
	if e.Checksum != "" {
		m["checksum"] = e.Checksum
	}
	if e.DatabaseType != "" {
		m["database_type"] = e.DatabaseType
	}
	if e.Error != "" {
		m["error"] = e.Error
	}
	return m
}

// ToMap converts DNSEvent to map
func (e *DNSEvent) ToMap() map[string]any {
	m := make(map[string]any)
	m["domain"] = e.Domain
	if e.QueryType != "" {
		m["query_type"] = e.QueryType
	}
	if e.Transport != "" {
		m["transport"] = e.Transport
	}
	if e.Rcode != "" {
		m["rcode"] = e.Rcode
		m["rcode_num"] = e.RcodeNum
	}
	if len(e.Answers) > 0 {
		m["answers"] = e.Answers
	}
	if e.Error != "" {
		m["error"] = e.Error
	}
	return m
}
