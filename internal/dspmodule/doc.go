package dspmodule

// Parameter and note messages are accepted with a timestamp but applied
// at the start of the next chunk boundary the worker processes them in;
// no module here attempts intra-chunk interpolation of a SetParam
// change. A module that wanted sample-accurate automation would need to
// consume the remaining samples in the current chunk before the change
// takes effect — a valid extension this package does not implement.
