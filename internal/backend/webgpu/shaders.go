//go:build windows

package webgpu

// WGSL compute shaders for the crop-and-resize kernels.
// Using string constants instead of embed for simplicity.

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// cropResizeShader samples one output element per invocation: the flat index
// decomposes into (box, y, x, channel). Coordinates map into the source image
// exactly like the CPU kernel, so the two backends pick the same corners and
// agree to float32 precision. Out-of-bounds samples store the extrapolation
// value; boxes with an invalid image index leave their zero-initialized
// output untouched.
const cropResizeShader = `
@group(0) @binding(0) var<storage, read> image: array<f32>;
@group(0) @binding(1) var<storage, read> boxes: array<f32>;
@group(0) @binding(2) var<storage, read> box_ind: array<i32>;
@group(0) @binding(3) var<storage, read_write> crops: array<f32>;

struct Params {
    total: u32,    // num_boxes * crop_h * crop_w * depth
    batch: u32,
    image_h: u32,
    image_w: u32,
    depth: u32,
    crop_h: u32,
    crop_w: u32,
    extrapolation_value: f32,
}
@group(0) @binding(4) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.total) {
        return;
    }

    let d = idx % params.depth;
    let x = (idx / params.depth) % params.crop_w;
    let y = (idx / (params.depth * params.crop_w)) % params.crop_h;
    let b = idx / (params.depth * params.crop_w * params.crop_h);

    let b_in = box_ind[b];
    if (b_in < 0 || b_in >= i32(params.batch)) {
        return;
    }

    let y1 = boxes[b * 4u + 0u];
    let x1 = boxes[b * 4u + 1u];
    let y2 = boxes[b * 4u + 2u];
    let x2 = boxes[b * 4u + 3u];

    let max_y = f32(params.image_h - 1u);
    let max_x = f32(params.image_w - 1u);

    var in_y: f32;
    if (params.crop_h > 1u) {
        let height_scale = (y2 - y1) * max_y / f32(params.crop_h - 1u);
        in_y = y1 * max_y + f32(y) * height_scale;
    } else {
        in_y = 0.5 * (y1 + y2) * max_y;
    }
    if (in_y < 0.0 || in_y > max_y) {
        crops[idx] = params.extrapolation_value;
        return;
    }

    var in_x: f32;
    if (params.crop_w > 1u) {
        let width_scale = (x2 - x1) * max_x / f32(params.crop_w - 1u);
        in_x = x1 * max_x + f32(x) * width_scale;
    } else {
        in_x = 0.5 * (x1 + x2) * max_x;
    }
    if (in_x < 0.0 || in_x > max_x) {
        crops[idx] = params.extrapolation_value;
        return;
    }

    let top = u32(floor(in_y));
    let bottom = u32(ceil(in_y));
    let y_lerp = in_y - floor(in_y);
    let left = u32(floor(in_x));
    let right = u32(ceil(in_x));
    let x_lerp = in_x - floor(in_x);

    let base = u32(b_in) * params.image_h * params.image_w * params.depth;
    let top_left = image[base + (top * params.image_w + left) * params.depth + d];
    let top_right = image[base + (top * params.image_w + right) * params.depth + d];
    let bottom_left = image[base + (bottom * params.image_w + left) * params.depth + d];
    let bottom_right = image[base + (bottom * params.image_w + right) * params.depth + d];

    let top_val = top_left + (top_right - top_left) * x_lerp;
    let bottom_val = bottom_left + (bottom_right - bottom_left) * x_lerp;
    crops[idx] = top_val + (bottom_val - top_val) * y_lerp;
}
`

// cropResize3DShader is the trilinear variant: the flat index decomposes into
// (box, y, x, z, channel) and the eight enclosing corners blend along x,
// then y, then z, matching the CPU kernel's order.
const cropResize3DShader = `
@group(0) @binding(0) var<storage, read> image: array<f32>;
@group(0) @binding(1) var<storage, read> boxes: array<f32>;
@group(0) @binding(2) var<storage, read> box_ind: array<i32>;
@group(0) @binding(3) var<storage, read_write> crops: array<f32>;

struct Params {
    total: u32,    // num_boxes * crop_h * crop_w * crop_d * depth
    batch: u32,
    image_h: u32,
    image_w: u32,
    image_d: u32,
    depth: u32,
    crop_h: u32,
    crop_w: u32,
    crop_d: u32,
    extrapolation_value: f32,
}
@group(0) @binding(4) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.total) {
        return;
    }

    let d = idx % params.depth;
    let z = (idx / params.depth) % params.crop_d;
    let x = (idx / (params.depth * params.crop_d)) % params.crop_w;
    let y = (idx / (params.depth * params.crop_d * params.crop_w)) % params.crop_h;
    let b = idx / (params.depth * params.crop_d * params.crop_w * params.crop_h);

    let b_in = box_ind[b];
    if (b_in < 0 || b_in >= i32(params.batch)) {
        return;
    }

    let y1 = boxes[b * 6u + 0u];
    let x1 = boxes[b * 6u + 1u];
    let z1 = boxes[b * 6u + 2u];
    let y2 = boxes[b * 6u + 3u];
    let x2 = boxes[b * 6u + 4u];
    let z2 = boxes[b * 6u + 5u];

    let max_y = f32(params.image_h - 1u);
    let max_x = f32(params.image_w - 1u);
    let max_z = f32(params.image_d - 1u);

    var in_y: f32;
    if (params.crop_h > 1u) {
        let height_scale = (y2 - y1) * max_y / f32(params.crop_h - 1u);
        in_y = y1 * max_y + f32(y) * height_scale;
    } else {
        in_y = 0.5 * (y1 + y2) * max_y;
    }
    if (in_y < 0.0 || in_y > max_y) {
        crops[idx] = params.extrapolation_value;
        return;
    }

    var in_x: f32;
    if (params.crop_w > 1u) {
        let width_scale = (x2 - x1) * max_x / f32(params.crop_w - 1u);
        in_x = x1 * max_x + f32(x) * width_scale;
    } else {
        in_x = 0.5 * (x1 + x2) * max_x;
    }
    if (in_x < 0.0 || in_x > max_x) {
        crops[idx] = params.extrapolation_value;
        return;
    }

    var in_z: f32;
    if (params.crop_d > 1u) {
        let depth_scale = (z2 - z1) * max_z / f32(params.crop_d - 1u);
        in_z = z1 * max_z + f32(z) * depth_scale;
    } else {
        in_z = 0.5 * (z1 + z2) * max_z;
    }
    if (in_z < 0.0 || in_z > max_z) {
        crops[idx] = params.extrapolation_value;
        return;
    }

    let top = u32(floor(in_y));
    let bottom = u32(ceil(in_y));
    let y_lerp = in_y - floor(in_y);
    let left = u32(floor(in_x));
    let right = u32(ceil(in_x));
    let x_lerp = in_x - floor(in_x);
    let front = u32(floor(in_z));
    let back = u32(ceil(in_z));
    let z_lerp = in_z - floor(in_z);

    let plane = params.image_d * params.depth;
    let base = u32(b_in) * params.image_h * params.image_w * plane;
    let top_left = base + (top * params.image_w + left) * plane;
    let top_right = base + (top * params.image_w + right) * plane;
    let bottom_left = base + (bottom * params.image_w + left) * plane;
    let bottom_right = base + (bottom * params.image_w + right) * plane;

    let tlf = image[top_left + front * params.depth + d];
    let tlb = image[top_left + back * params.depth + d];
    let trf = image[top_right + front * params.depth + d];
    let trb = image[top_right + back * params.depth + d];
    let blf = image[bottom_left + front * params.depth + d];
    let blb = image[bottom_left + back * params.depth + d];
    let brf = image[bottom_right + front * params.depth + d];
    let brb = image[bottom_right + back * params.depth + d];

    let top_front = tlf + (trf - tlf) * x_lerp;
    let bottom_front = blf + (brf - blf) * x_lerp;
    let front_val = top_front + (bottom_front - top_front) * y_lerp;

    let top_back = tlb + (trb - tlb) * x_lerp;
    let bottom_back = blb + (brb - blb) * x_lerp;
    let back_val = top_back + (bottom_back - top_back) * y_lerp;

    crops[idx] = front_val + (back_val - front_val) * z_lerp;
}
`
