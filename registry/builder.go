package registry

import (
	"context"

	"github.com/rdp-studio/dn42-geoasn/common/rpsl"
	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/rdp-studio/dn42-geoasn/log"
	E "github.com/sagernet/sing/common/exceptions"
)

// Record is one route object reduced to its prefix, origin and the origin's AS name.
type Record struct {
	Class   string
	Prefix  string
	Origin  string
	ASName  string
	HasName bool
	// NameError holds the reason the AS name is missing.
	NameError error
}

type BuilderOptions struct {
	Logger   log.ContextLogger
	Reader   *Reader
	Resolver *Resolver
	// Classes defaults to route then route6.
	Classes []string
}

type Builder struct {
	logger   log.ContextLogger
	reader   *Reader
	resolver *Resolver
	classes  []string
}

func NewBuilder(options BuilderOptions) *Builder {
	builder := &Builder{
		logger:   options.Logger,
		reader:   options.Reader,
		resolver: options.Resolver,
		classes:  options.Classes,
	}
	if builder.logger == nil {
		builder.logger = log.NewNOPFactory().Logger()
	}
	if builder.resolver == nil {
		builder.resolver = NewResolver(builder.reader, true)
	}
	if len(builder.classes) == 0 {
		builder.classes = C.RouteObjectClasses
	}
	return builder
}

// Build scans every configured object class in order and concatenates the records.
func (b *Builder) Build(ctx context.Context) ([]Record, error) {
	var records []Record
	for _, class := range b.classes {
		classRecords, err := b.BuildClass(ctx, class)
		if err != nil {
			return nil, err
		}
		records = append(records, classRecords...)
	}
	return records, nil
}

// BuildClass produces one record per object file of the class that carries both
// a prefix and an origin. Within a file the last occurrence of each attribute wins.
func (b *Builder) BuildClass(ctx context.Context, class string) ([]Record, error) {
	prefixField, loaded := rpsl.PrefixField(class)
	if !loaded {
		return nil, E.New("not a route object class: ", class)
	}
	files, err := b.reader.Files(class)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(files))
	for _, path := range files {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		var prefix, origin string
		err = b.reader.ScanFile(path, func(line string) bool {
			if value, matched := rpsl.Match(prefixField, line); matched {
				prefix = value
			} else if value, matched = rpsl.Match(rpsl.FieldOrigin, line); matched {
				origin = value
			}
			return true
		})
		if err != nil {
			return nil, E.Cause(err, "read ", class, " object ", path)
		}
		if prefix == "" || origin == "" {
			b.logger.TraceContext(ctx, "ignore ", path, ": missing ", prefixField, " or origin")
			continue
		}
		record := Record{
			Class:  class,
			Prefix: prefix,
			Origin: origin,
		}
		record.ASName, record.NameError = b.resolver.Lookup(origin)
		record.HasName = record.NameError == nil
		records = append(records, record)
	}
	b.logger.DebugContext(ctx, "scanned ", len(files), " ", class, " objects, ", len(records), " records")
	return records, nil
}
