package metrics

const Namespace = "montage"
