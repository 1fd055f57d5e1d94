package models

// Movie is a property mapping for a Movie node. Beyond tmdbId the
// properties are opaque pass-through values owned by the graph.
type Movie map[string]interface{}
