package badgerclient

// Database Key Namespace Design
// ==============================
//
// One BadgerDB can host several buckets. Every key carries a namespace
// prefix and, for objects, the bucket name:
//
// Data Type        Prefix   Key Format                Value Type
// ================================================================
// Bucket marker    "b:"     b:<bucket>                empty
// Object info      "m:"     m:<bucket>/<objectKey>    objectRecord (JSON)
// Object data      "d:"     d:<bucket>/<objectKey>    raw bytes
//
// Object info and data are split so listings scan only the small "m:"
// records and never load object bodies.
//
// Because badger iterates keys in byte order, a prefix listing is a range
// scan over "m:<bucket>/<prefix>".

const (
	prefixBucket = "b:"
	prefixMeta   = "m:"
	prefixData   = "d:"
)

func keyBucket(bucket string) []byte {
	return []byte(prefixBucket + bucket)
}

func keyMetaPrefix(bucket string) string {
	return prefixMeta + bucket + "/"
}

func keyMeta(bucket, key string) []byte {
	return []byte(keyMetaPrefix(bucket) + key)
}

func keyData(bucket, key string) []byte {
	return []byte(prefixData + bucket + "/" + key)
}
