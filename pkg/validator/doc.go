// Package validator compiles JSON Schemas and validates decoded request bodies.
//
// Schemas are compiled once at bootstrap with Compile (JSON) or CompileYAML and
// attached to routes. Validation failures come back as ValidationErrors, one entry
// per failing leaf keyword, with English messages:
//
//	var createItem = validator.MustCompile("create-item", []byte(`{
//	    "type": "object",
//	    "required": ["name"],
//	    "properties": {"name": {"type": "string", "minLength": 1}}
//	}`))
//
//	if err := createItem.Validate(body); err != nil {
//	    errs := validator.ExtractValidationErrors(err)
//	    ...
//	}
//
// Bodies must be decoded with Decode (or be plain Go maps, slices and scalars)
// so numbers keep their exact representation.
package validator
