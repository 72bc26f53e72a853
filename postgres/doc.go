/*
Package postgres manages a PostgreSQL connection through GORM
and loads request-scoped entities out of it.

An [*EntityConverter] is a converter for routes identifying a record in their path,
such as /jobs/{id}: the record is fetched by that path variable
and stored in the request's Attributes, the same way a body is bound.
*/
package postgres
