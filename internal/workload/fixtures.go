package workload

import "fmt"

// Builtin fixtures cover the three shapes the upstream validator suite
// benchmarks: a minimal flat class, an inheritance chain with a pattern
// slot, and a wide class with many optional slots.

const simpleSchema = `id: bench-simple
name: SimpleBench
classes:
  Person:
    slots:
      - name
      - age
      - email
slots:
  name:
    range: string
    required: true
  age:
    range: integer
  email:
    range: string
    pattern: "^[^@]+@[^@]+\\.[^@]+$"
`

const complexSchema = `id: bench-complex
name: ComplexBench
classes:
  Entity:
    slots:
      - id
      - created_at
  Person:
    is_a: Entity
    slots:
      - name
      - email
  Employee:
    is_a: Person
    slots:
      - employee_id
      - department
      - salary
slots:
  id:
    range: string
    required: true
  created_at:
    range: string
  name:
    range: string
    required: true
  email:
    range: string
    pattern: "^[^@]+@[^@]+\\.[^@]+$"
  employee_id:
    range: string
    required: true
    pattern: "^EMP-[0-9]{6}$"
  department:
    range: string
  salary:
    range: float
`

func builtinWorkloads() []Workload {
	return []Workload{
		{
			Name:        "simple",
			Schema:      simpleSchema,
			TargetClass: "Person",
			Data: map[string]any{
				"name":  "Alice Example",
				"age":   30,
				"email": "alice@example.org",
			},
		},
		{
			Name:        "complex",
			Schema:      complexSchema,
			TargetClass: "Employee",
			Data: map[string]any{
				"id":          "e-1042",
				"created_at":  "2024-05-01T10:00:00Z",
				"name":        "Bob Builder",
				"email":       "bob@example.org",
				"employee_id": "EMP-001042",
				"department":  "Engineering",
				"salary":      82000.0,
			},
		},
		wideWorkload(40),
	}
}

// wideWorkload builds a flat class with n optional string slots plus one
// required identifier, exercising per-slot overhead.
func wideWorkload(n int) Workload {
	schema := "id: bench-wide\nname: WideBench\nclasses:\n  Record:\n    slots:\n      - id\n"
	slots := "slots:\n  id:\n    range: string\n    required: true\n"
	data := map[string]any{"id": "rec-1"}

	for i := 0; i < n; i++ {
		field := fmt.Sprintf("field_%02d", i)
		schema += "      - " + field + "\n"
		slots += "  " + field + ":\n    range: string\n"
		data[field] = fmt.Sprintf("value %d", i)
	}

	return Workload{
		Name:        "wide",
		Schema:      schema + slots,
		TargetClass: "Record",
		Data:        data,
	}
}
