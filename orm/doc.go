/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets. Each bucket contains
only one type of object, addressed by a primary key. Models are validated
before they are written and always serialized with their own Marshal method.
*/
package orm
