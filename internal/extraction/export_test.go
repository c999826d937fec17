package extraction

// WrapCompoundFile exposes wrapCompoundFile so tests can build .xls fixtures.
var WrapCompoundFile = wrapCompoundFile
