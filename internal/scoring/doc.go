// Package scoring turns an analyzed scan report into a compliance score,
// an aggregate suggestion list, and a one-line verdict. All weights come
// from the active threshold profile; the engine itself holds no policy.
package scoring
