package querybuilder

// InsertRows holds the value rows of a multi-row insert
type InsertRows [][]interface{}
