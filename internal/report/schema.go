package report

// Schema is the JSON Schema (Draft 2020-12) for the Whiff scan JSON
// output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/whiff/scan-report.schema.json",
  "title": "Whiff Scan Report",
  "description": "Output schema for whiff detect --format=json",
  "type": "object",
  "required": ["version", "files", "total", "by_label", "metadata"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Whiff version that produced the report"
    },
    "files": {
      "type": "array",
      "description": "Files with at least one finding, sorted by path",
      "items": { "$ref": "#/$defs/File" }
    },
    "total": {
      "type": "integer",
      "minimum": 0,
      "description": "Number of findings across all files after deduplication"
    },
    "by_label": {
      "type": "object",
      "description": "Finding count per smell label",
      "propertyNames": { "$ref": "#/$defs/Label" },
      "additionalProperties": { "type": "integer", "minimum": 1 }
    },
    "metadata": { "$ref": "#/$defs/Metadata" }
  },
  "$defs": {
    "File": {
      "type": "object",
      "required": ["path", "findings"],
      "properties": {
        "path": {
          "type": "string",
          "description": "Path relative to the scanned tests directory, slash-separated"
        },
        "findings": {
          "type": "array",
          "minItems": 1,
          "items": { "$ref": "#/$defs/Finding" }
        }
      }
    },
    "Finding": {
      "type": "object",
      "required": ["id", "label", "scope", "text"],
      "properties": {
        "id": {
          "type": "string",
          "pattern": "^sm-[0-9a-f]{8}$",
          "description": "Stable identifier (sm-XXXXXXXX)"
        },
        "label": { "$ref": "#/$defs/Label" },
        "scope": {
          "type": "string",
          "enum": ["file", "fixture", "test"],
          "description": "Granularity the smell was detected at"
        },
        "target": {
          "type": "string",
          "description": "Test method name, for test-scope findings"
        },
        "text": {
          "type": "string",
          "description": "Rendered form: 'Label' or 'Label: target'"
        }
      }
    },
    "Label": {
      "type": "string",
      "enum": [
        "Ignored Test", "Constructor Initialization",
        "Mystery Guest", "Resource Optimism",
        "General Fixture",
        "Empty Test", "Unknown Test", "Sleepy Test",
        "Redundant Print", "Conditional Test Logic",
        "Exception Handling", "Assertion Roulette",
        "Duplicate Assert", "Magic Number Test",
        "Sensitive Equality", "Redundant Assertion",
        "Default Test", "Lazy Test", "Eager Test"
      ]
    },
    "Metadata": {
      "type": "object",
      "required": ["whiff_version", "go_version"],
      "properties": {
        "whiff_version": { "type": "string" },
        "go_version": { "type": "string" },
        "warnings": {
          "oneOf": [
            { "type": "array", "items": { "type": "string" } },
            { "type": "null" }
          ],
          "description": "Files skipped during loading, if any"
        }
      }
    }
  }
}`
