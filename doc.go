/*
Package cdb64 provides a native implementation of cdb, a constant key/value
database, extended to 64-bit file offsets so a single database may exceed
4 GiB.

A constant database is write-once, read-many: a Writer streams records into
a sink and Finalizes it; thereafter a Reader may look up values by key or
iterate every record, but nothing may be mutated in place. Callers who need
to "update" a database write a new file and atomically rename it over the
old one (see CreateAtomic).

For more on the original design, see DJB's cdb page at
http://cr.yp.to/cdb.html.
*/
package cdb64
