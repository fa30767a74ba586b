/*
Package catalog resolves tutorial definitions for hosts.

Three sources are supported, all exposed as ports.Catalog:

  - the built-in tutorials shipped with the binary (Builtin),
  - a YAML file listing tutorials (LoadFile),
  - a directory of Markdown step documents (see pkg/adapters/loam).

Open picks the source from a path. Every source stamps the given persona into
steps that do not name their own speaker, and file-based sources reject
tutorials whose step graph does not validate.
*/
package catalog
