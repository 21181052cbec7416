// Package genome defines the gene-neighborhood data model used by geco.
//
// # Overview
//
// A [Dataset] is an ordered list of central genes. Each central gene owns a
// [Neighborhood]: a map from relative position to [Gene], where negative
// positions are upstream, 0 is the central gene itself and positive positions
// are downstream.
//
// Genes carry their functional and taxonomic annotations as a tagged variant
// ([Annotation]):
//
//   - [Scalar]: a single category value such as a GMGFam family id
//   - [Flat]: category id -> [Notation] descriptor (KEGG, Pfam, ...)
//   - [Hierarchical]: taxonomic level -> [Flat] (eggNOG, tax_prediction)
//
// Reserved keys ("scores" and, for flat maps, "prediction") are kept aside
// during ingestion and never show up as categories.
//
// # Strand
//
// Source data encodes strand either as "+"/"-" or as a signed number. Both
// forms are normalized to [Strand] at ingestion time, so downstream code only
// ever sees [Forward] or [Reverse].
//
// # Ingestion
//
// [ReadJSON] and [ParseJSON] decode the backend payload while preserving JSON
// object key order. Order matters: the first and last category of a gene
// pick its glyph fill depending on strand, and central genes are laid out in
// document order.
//
//	ds, err := genome.ParseJSON(data)
//	if err != nil {
//	    return err
//	}
//	ds.Normalize() // apply the strand swap to every reverse-anchored row
package genome
