// Package inventory reads the set of image names already stored in the
// remote GraphQL catalog. The catalog is queried once per run; its answer is
// used to skip images that were downloaded on an earlier run.
package inventory
