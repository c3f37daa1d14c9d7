package normalizer

import "github.com/cyrhla/loader/internal/valueutil"

// Service is a service definition read from a <service> element.
type Service struct {
	// ID is the required id attribute, stringified.
	ID string
	// Attributes holds every attribute of the element, id included.
	Attributes map[string]any
	// Arguments lists <argument> children, then those nested in <arguments>.
	Arguments []any
	// Calls lists <call> children, then those nested in <calls>.
	Calls []Call
	// Tags lists <tag> children, then those nested in <tags>.
	Tags []any
}

// Call is a method call performed on a service after construction.
type Call struct {
	Method    string
	Arguments []any
}

// Container holds the parameters and services declared by a document.
// A nil map means the document had no corresponding wrapper element.
type Container struct {
	Parameters map[string]any
	Services   map[string]*Service
}

// Map returns the generic view of the service: its attributes plus
// "arguments", "calls" (as [method, arguments] pairs) and "tags".
func (s *Service) Map() map[string]any {
	out := make(map[string]any, len(s.Attributes)+3)
	for k, v := range s.Attributes {
		out[k] = v
	}
	calls := make([]any, 0, len(s.Calls))
	for _, c := range s.Calls {
		calls = append(calls, []any{c.Method, c.Arguments})
	}
	out["arguments"] = s.Arguments
	out["calls"] = calls
	out["tags"] = s.Tags
	return out
}

// Map returns the generic view of the container.
func (c *Container) Map() map[string]any {
	out := make(map[string]any, 2)
	if c.Parameters != nil {
		out["parameters"] = c.Parameters
	}
	if c.Services != nil {
		services := make(map[string]any, len(c.Services))
		for id, s := range c.Services {
			services[id] = s.Map()
		}
		out["services"] = services
	}
	return out
}

// ParseContainer reads parameter and service definitions from an XML tree:
//
//	<container>
//	    <parameters>
//	        <parameter id="mailer.transport">smtp</parameter>
//	    </parameters>
//	    <services>
//	        <service id="mailer" class="Mailer">
//	            <argument>%mailer.transport%</argument>
//	            <call method="setLogger"><argument>@logger</argument></call>
//	            <tag>mailer</tag>
//	        </service>
//	    </services>
//	</container>
//
// Parameters and services must carry an id and calls a method. A later
// definition with the same id replaces an earlier one.
func ParseContainer(doc map[string]any, keys Keys) (*Container, error) {
	c := &Container{}

	if raw, ok := doc["parameters"]; ok {
		c.Parameters = make(map[string]any)
		for _, wrapper := range elements(raw) {
			for _, p := range child(wrapper, "parameter") {
				id, err := requiredKey(p, keys, "parameter", "id")
				if err != nil {
					return nil, err
				}
				c.Parameters[id] = text(p, keys.Char)
			}
		}
	}

	if raw, ok := doc["services"]; ok {
		c.Services = make(map[string]*Service)
		for _, wrapper := range elements(raw) {
			for _, element := range child(wrapper, "service") {
				s, err := parseService(element, keys)
				if err != nil {
					return nil, err
				}
				c.Services[s.ID] = s
			}
		}
	}

	return c, nil
}

func parseService(element any, keys Keys) (*Service, error) {
	id, err := requiredKey(element, keys, "service", "id")
	if err != nil {
		return nil, err
	}
	attrs, _ := attributes(element, keys.Attr)

	s := &Service{
		ID:         id,
		Attributes: make(map[string]any, len(attrs)),
		Arguments:  singletonThenGrouped(element, "argument", "arguments"),
		Calls:      make([]Call, 0),
		Tags:       singletonThenGrouped(element, "tag", "tags"),
	}
	for k, v := range attrs {
		s.Attributes[k] = v
	}

	for _, call := range singletonThenGrouped(element, "call", "calls") {
		method, err := required(call, keys, "call", "method")
		if err != nil {
			return nil, err
		}
		s.Calls = append(s.Calls, Call{
			Method:    valueutil.KeyString(method),
			Arguments: singletonThenGrouped(call, "argument", "arguments"),
		})
	}
	return s, nil
}

// ContainerXML is the XMLNormalizer form of ParseContainer. Root attributes
// are carried through as a one-element list.
type ContainerXML struct{}

// NormalizeXML implements XMLNormalizer.
func (ContainerXML) NormalizeXML(doc map[string]any, keys Keys) (map[string]any, error) {
	c, err := ParseContainer(doc, keys)
	if err != nil {
		return nil, err
	}
	out := c.Map()
	keepGlobalAttributes(doc, out, keys.Attr)
	return out, nil
}
