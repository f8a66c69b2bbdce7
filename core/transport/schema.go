package transport

import "github.com/invopop/jsonschema"

// ProtocolSchema returns the JSON schema of the outbound control payload.
// Remote-service integrators validate against this instead of reading the
// decode table.
func ProtocolSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return reflector.Reflect(&ControlMessage{})
}
